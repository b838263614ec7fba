// Package catconf reads configuration that was appended to the running executable.
//
// A build step concatenates the compiled program, a marker and arbitrary configuration bytes:
//
//	cat app <(echo -n "CATCONF") config.yaml > app-configured
//
// At runtime, the configuration is recovered with
//
//	conf, err := catconf.ReadFromExe([]byte("CATCONF"))
//
// Everything after the last occurrence of the marker is returned as-is.
// Decoding (UTF-8, YAML, decompression, ...) is left to the caller.
// If the executable has no configuration appended, ErrMarkerNotFound is returned.
//
// Note that a marker written as string literal is usually part of the executable's data as well.
// Since the last occurrence wins, this is harmless once configuration was appended,
// but an unconfigured executable will then not report ErrMarkerNotFound.
// Assemble the marker at runtime to avoid this.
package catconf
