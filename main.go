/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package main

import "github.com/voluma/wheelhouse/cmd"

func main() {
	cmd.Execute()
}
