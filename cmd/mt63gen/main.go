/* Generate a .WAV file of MT63 text */
package main

import (
	mt63 "github.com/doismellburning/mt63/src"
)

func main() {
	mt63.GenMain()
}
