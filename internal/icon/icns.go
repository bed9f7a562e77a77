package icon

import "github.com/jackmordaunt/icns/v3"

// ICNSEncoder writes an Apple icon image. The embedded resolutions are
// chosen by the icns package from the source size.
var ICNSEncoder Encoder = EncoderFunc(icns.Encode)
