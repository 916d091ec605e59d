// Package platform smooths over filesystem differences between operating
// systems. Permission bits are applied where the OS has them, and symbolic
// links fall back to copies where they cannot be created.
package platform
