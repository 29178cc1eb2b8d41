package registry

// Module is the import path of the documented library.
const Module = "github.com/lmittmann/w3"

// DefaultPaths lists one alias per documented w3 package.
func DefaultPaths() map[string]string {
	return map[string]string{
		"w3":      Module,
		"module":  Module + "/module",
		"debug":   Module + "/module/debug",
		"eth":     Module + "/module/eth",
		"txpool":  Module + "/module/txpool",
		"web3":    Module + "/module/web3",
		"w3types": Module + "/w3types",
		"w3vm":    Module + "/w3vm",
	}
}

// Default returns the registry for the w3 packages.
func Default() *Registry {
	return &Registry{paths: DefaultPaths()}
}
