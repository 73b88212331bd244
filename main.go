// Copyright © 2024 The Lithium authors

package main

import "github.com/barmalei/lithium/cmd"

func main() {
	cmd.Execute()
}
