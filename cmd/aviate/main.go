// Package main is the entry point for the Aviate server.
package main

func main() {
	Execute()
}
