// Package main is the entry point for dwmstatus, a status line daemon for dwm.
package main

func main() {
	Execute()
}
