package paths

import (
	"flag"
	"fmt"
)

// SetupFilePathFlag registers flagName on the default flag set. The flag
// names a data file such as a ROM dump, and defaults to where Find locates
// fileName.
func SetupFilePathFlag(fileName, flagName string, flagPtr *string) {
	SetupFilePathFlagSet(flag.CommandLine, fileName, flagName, flagPtr)
}

// SetupFilePathFlagSet is SetupFilePathFlag for an arbitrary flag set. Values
// are meant for ReadFile, so a URL or a bare file name works too.
func SetupFilePathFlagSet(fs *flag.FlagSet, fileName, flagName string, flagPtr *string) {
	usage := fmt.Sprintf("Path or URL of %s; searched for in $%s and datafiles/ when empty", fileName, EnvDataDirs)
	fs.StringVar(flagPtr, flagName, Find(fileName), usage)
}
