package genconfig

// Message constants
const (
	MsgShort   = "Print or write the default configuration"
	MsgLong    = "Output the default configuration, every value commented out, to stdout or to a file.\n\nWith -w writes .texmerge.toml in the working directory; with -w --user writes the user configuration instead.\nAn existing file is never overwritten."
	MsgExample = `  texmerge genconfig              # Output to stdout
  texmerge genconfig -w           # Write to ./.texmerge.toml
  texmerge genconfig -w --user    # Write to ~/.config/texmerge/config.toml`

	MsgFlagWrite = "Write config to a file instead of stdout"
	MsgFlagUser  = "With --write, target the user configuration file"

	MsgWritten = "Wrote %s\n"
	MsgExists  = "%s already exists, left unchanged\n"
)
