//go:build tools

package datapublic

import (
	_ "github.com/maxbrunsfeld/counterfeiter/v6"
)
