package main

import "github.com/mensylisir/xmansible/cmd"

func main() {
	cmd.Execute()
}
