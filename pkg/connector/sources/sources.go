// Package sources links every source connector so that its init registers it.
package sources

import (
	_ "github.com/ajitpratap0/dopant/pkg/connector/sources/csv"
	_ "github.com/ajitpratap0/dopant/pkg/connector/sources/json"
	_ "github.com/ajitpratap0/dopant/pkg/connector/sources/sql"
)
