// This file is part of the program "blurhook".
// Please see the LICENSE file for copyright information.

// Command blurhook is built with -buildmode=c-shared and loaded into a host
// process. Loading the library starts the hook installer; see inject_android.go.
package main

import "C"

func main() {}
