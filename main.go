package main

import "github.com/nunajera/mistral-chat/cmd"

func main() {
	cmd.Execute()
}
