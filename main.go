/*
Copyright © 2026 shinnku-nikaidou
*/
package main

import "github.com/shinnku-nikaidou/AutoBTD6/cmd"

func main() {
	cmd.Execute()
}
