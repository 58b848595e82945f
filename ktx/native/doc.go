// Package native implements ktx.Library on top of the libktx shared library.
//
// The library is opened at run time with purego (dlopen on Unix,
// LoadLibraryEx on Windows), so no C toolchain is needed to build. Symbols
// are resolved once at load; a libktx without any of the bound entry points
// fails to load rather than failing later.
//
// Search order for the shared library:
//   - Options.Path, if set (a leading ~ is expanded);
//   - the KTX_LIBRARY_PATH environment variable, if set;
//   - each of Options.SearchDirs, then the directory of the running executable;
//   - the bare platform library name, resolved by the system loader.
//
// On platforms purego does not support every load fails.
package native
