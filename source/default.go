// Package source makes goccy/go-json the JSON driver of fwfconv. Import it
// for side effects:
//
//	import _ "github.com/dck-problem/fwfconv/source"
package source

import (
	"github.com/dck-problem/fwfconv"
	drvgojson "github.com/dck-problem/fwfconv/source/gojson"
)

// Lives outside the root package, which cannot import the driver without a
// cycle.
func init() { fwfconv.SetJSONDriver(drvgojson.Driver()) }
