package main

import "github.com/Manu343726/aidwarf/cmd/aidwarf"

func main() {
	aidwarf.Execute()
}
