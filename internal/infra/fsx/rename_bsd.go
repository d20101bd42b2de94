//go:build unix && !linux && !darwin

package fsx

func renameNoReplace(src, dst string) error {
	return linkRename(src, dst)
}
