package main

import "github.com/KaramelBytes/paludash/cmd"

func main() {
	cmd.Execute()
}
