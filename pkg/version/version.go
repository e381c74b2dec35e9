// Package version reports the module version the binaries were built from.
package version

var version = "unknown"

func Get() string {
	if version == "" || version == "(devel)" {
		return "unknown"
	}
	return version
}
