// Package destinations links every destination connector so that its init
// registers it.
package destinations

import (
	_ "github.com/ajitpratap0/dopant/pkg/connector/destinations/csv"
	_ "github.com/ajitpratap0/dopant/pkg/connector/destinations/json"
)
