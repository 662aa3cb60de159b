package cmd

const (
	CommandAliasRoot     = "sc"
	CommandNameConfigure = "configure"
	CommandNameRoot      = "searchclick"
	CommandNameRun       = "run"
	ConfigFileDefault    = "config.yaml"
	FlagNameConfigFile   = "config"
	FlagNameVerbose      = "verbose"
)
