package remote

import (
	"errors"
	"path"
	"strings"
)

// Ancestors splits dir into its directory chain, root to leaf.
// "/srv/escuela/OTROS" yields "/srv", "/srv/escuela", "/srv/escuela/OTROS".
func Ancestors(dir string) []string {
	clean := path.Clean(dir)
	if clean == "/" || clean == "." || clean == "" {
		return nil
	}

	absolute := strings.HasPrefix(clean, "/")
	parts := strings.Split(strings.Trim(clean, "/"), "/")

	ancestors := make([]string, 0, len(parts))
	current := ""
	for i, part := range parts {
		switch {
		case i == 0 && absolute:
			current = "/" + part
		case i == 0:
			current = part
		default:
			current = current + "/" + part
		}
		ancestors = append(ancestors, current)
	}
	return ancestors
}

// EnsureDirectory creates every missing ancestor of dir in root-to-leaf order.
// It stops at the first ancestor it cannot create, since nothing below it can exist.
func EnsureDirectory(session Session, dir string) error {
	for _, ancestor := range Ancestors(dir) {
		info, err := session.Stat(ancestor)
		if err == nil {
			if !info.IsDir() {
				return &DirectoryProvisionError{Path: ancestor, Err: errors.New("path exists and is not a directory")}
			}
			continue
		}
		if !IsNotExist(err) {
			return &DirectoryProvisionError{Path: ancestor, Err: err}
		}

		if err := session.Mkdir(ancestor); err != nil {
			// Another writer may have created it between Stat and Mkdir
			if info, statErr := session.Stat(ancestor); statErr == nil && info.IsDir() {
				continue
			}
			return &DirectoryProvisionError{Path: ancestor, Err: err}
		}
	}
	return nil
}
