package main

import "github.com/iFeyz/tiktok-ball-sub001/cmd"

func main() {
	cmd.Execute()
}
