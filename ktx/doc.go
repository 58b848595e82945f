// Package ktx binds a small subset of the native KTX2 library (libktx):
// loading textures from memory or file, Basis Universal transcoding, and image
// metadata queries.
//
// The package does no decoding or container parsing of its own. A Session
// owns the loaded library and forwards each call to one native entry point:
//
//	s := ktx.NewSession(native.NewLoader(native.Options{}))
//	if err := s.Init(); err != nil {
//		return err
//	}
//	defer s.Terminate()
//
//	tex, err := s.LoadFromFile("albedo.ktx2")
//	if err != nil {
//		return err
//	}
//	defer s.Destroy(tex)
//
//	if needs, _ := s.NeedsTranscoding(tex); needs {
//		if err := s.Transcode(tex, ktx.TranscodeBC7RGBA, ktx.TranscodeNoFlags); err != nil {
//			return err
//		}
//	}
//
// Every native failure is reported as an *Error carrying the libktx status
// code; use ErrorCodeOf or IsCode to inspect it.
package ktx
