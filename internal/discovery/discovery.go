// Package discovery lists the services (independently packageable data
// subsets) under the base package's data root.
package discovery

import (
	"fmt"
	"os"
	"sort"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
)

// ListServices returns the sorted names of the immediate subdirectories of
// dataRoot. Files are ignored. Sorting keeps build ordering reproducible
// across runs.
func ListServices(dataRoot string) ([]string, error) {
	info, err := os.Stat(dataRoot)
	if err != nil {
		return nil, rerrors.FileSystem("stat data root", dataRoot, err)
	}
	if !info.IsDir() {
		return nil, rerrors.FileSystem("stat data root", dataRoot, fmt.Errorf("not a directory"))
	}

	entries, err := os.ReadDir(dataRoot)
	if err != nil {
		return nil, rerrors.FileSystem("read data root", dataRoot, err)
	}

	services := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			services = append(services, e.Name())
		}
	}
	sort.Strings(services)
	return services, nil
}
