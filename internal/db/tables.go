package db

import "fmt"

// resolveTables validates requested table names against the catalog's own
// table list. Table names are interpolated into pragma and SELECT statements
// downstream, so nothing that fails this allow-list may reach a query.
func resolveTables(requested, catalog []string) ([]string, error) {
	if len(requested) == 0 {
		return catalog, nil
	}

	known := make(map[string]bool, len(catalog))
	for _, name := range catalog {
		known[name] = true
	}

	resolved := make([]string, 0, len(requested))
	for _, name := range requested {
		if !known[name] {
			return nil, fmt.Errorf("no such table: %s", name)
		}
		resolved = append(resolved, name)
	}
	return resolved, nil
}
