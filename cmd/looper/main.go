// SPDX-License-Identifier: EPL-2.0

// Command looper renders, inspects and plays looper sessions offline.
package main

func main() {
	Execute()
}
