package main

import (
	"github.com/gilchrisn/cnfvig/internal/appconfig"
	"github.com/gilchrisn/cnfvig/pkg/csvio"
	"github.com/gilchrisn/cnfvig/pkg/dimacs"
	"github.com/gilchrisn/cnfvig/pkg/vig"
)

// exitCodeFor maps a returned error to vigseg's exit code contract:
// 0 success, 1 invalid arguments, 2 invalid input, 3 output error.
func exitCodeFor(err error) int {
	switch err.(type) {
	case *appconfig.ConfigError, *vig.ConfigError:
		return 1
	case *dimacs.ParseError, *vig.OverflowError:
		return 2
	case *csvio.OutputError:
		return 3
	default:
		return 1
	}
}
