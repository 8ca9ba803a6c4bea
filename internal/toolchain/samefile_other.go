//go:build !unix

package toolchain

import "os"

// sameFile approximates file identity by length. Activation may have
// copied rather than linked, so there is no stable file ID to compare;
// two distinct binaries of equal length read as the same file here.
// Either path missing reports false.
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
	return ai.Size() == bi.Size(), nil
}
