// Package main is the entry point for the bizdesk CLI.
package main

func main() {
	Execute()
}
