package main

import "github.com/Taichi-iskw/yt-topics/cmd"

func main() {
	cmd.Execute()
}
