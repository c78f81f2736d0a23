package main

import "github.com/zen-web-components/photo-viewer/cmd/photoview/cmd"

func main() {
	cmd.Execute()
}
