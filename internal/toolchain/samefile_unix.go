//go:build unix

package toolchain

import "os"

// sameFile reports whether the two paths name the same underlying file.
// Activation hard-links into the store when it can, so device and inode
// identity is exact here. Either path missing reports false.
func sameFile(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	bi, err := os.Stat(b)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return os.SameFile(ai, bi), nil
}
