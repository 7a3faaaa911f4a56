// Package tool locates and runs the external codecs the converter delegates to.
//
// vgmstream-cli decodes a container to PCM WAV. The XMA encoder turns a PCM
// WAV into XMA, leaving its output next to the input under one of a few
// known names; OutputCandidates and FindOutput keep that guesswork separate
// from process spawning so it can be tested without the encoder installed.
package tool
