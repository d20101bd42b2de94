//go:build !unix && !windows

package fsx

func renameNoReplace(src, dst string) error {
	return checkedRename(src, dst)
}
