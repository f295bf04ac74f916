/* Decode MT63 text from .WAV files */
package main

import (
	mt63 "github.com/doismellburning/mt63/src"
)

func main() {
	mt63.AtestMain()
}
