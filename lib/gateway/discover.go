// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// jarSearchDepth bounds how far below each search directory FindJar
// descends. /usr/local and /Applications are large trees.
const jarSearchDepth = 4

// FindJar resolves the SikuliX jar. An explicit path must exist.
// Otherwise each search directory is walked up to a bounded depth for
// a .jar file whose name contains "sikulix" (any case); the first
// directory with a match wins, and within it the lexically last name
// (usually the newest version).
func FindJar(explicit string, searchDirs []string) (string, error) {
	if explicit != "" {
		info, err := os.Stat(explicit)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrJarNotFound, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%w: %s is a directory", ErrJarNotFound, explicit)
		}
		return filepath.Abs(explicit)
	}

	for _, dir := range searchDirs {
		matches := searchJars(dir)
		if len(matches) == 0 {
			continue
		}
		sort.Strings(matches)
		return filepath.Abs(matches[len(matches)-1])
	}
	return "", fmt.Errorf("%w in %s (set SIKULIX_JAR or gateway.jar)", ErrJarNotFound, strings.Join(searchDirs, ", "))
}

func searchJars(root string) []string {
	var matches []string
	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))
	filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) && entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return fs.SkipDir
			}
			if strings.Count(filepath.Clean(path), string(filepath.Separator))-rootDepth >= jarSearchDepth {
				return fs.SkipDir
			}
			return nil
		}
		name := strings.ToLower(entry.Name())
		if strings.HasSuffix(name, ".jar") && strings.Contains(name, "sikulix") {
			matches = append(matches, path)
		}
		return nil
	})
	return matches
}
