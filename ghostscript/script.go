package ghostscript

import "fmt"

// OverrideScript builds the PostScript control file for one conversion
// attempt. It pins color, grayscale, and monochrome image resolution to the
// target DPI with downsampling disabled, forces the print-production
// encoding filters, and replaces document metadata with fixed values so
// outputs are reproducible and carry none of the source document's
// authoring information.
//
// The function is pure; the caller writes the text to an attempt-unique
// file, hands it to the engine, and deletes it afterwards.
func OverrideScript(dpi int) string {
	return fmt.Sprintf(`<<
  /ColorImageDownsampleType /None
  /GrayImageDownsampleType /None
  /MonoImageDownsampleType /None
  /DownsampleColorImages false
  /DownsampleGrayImages false
  /DownsampleMonoImages false
  /ColorImageResolution %d
  /GrayImageResolution %d
  /MonoImageResolution %d
  /AutoFilterColorImages false
  /AutoFilterGrayImages false
  /ColorImageFilter /FlateEncode
  /GrayImageFilter /FlateEncode
  /MonoImageFilter /CCITTFaxEncode
>> setdistillerparams
[ /Title (Normalized Document)
  /Author (pdf-normalizer)
  /Producer (pdf-normalizer)
  /CreationDate (D:19700101000000Z)
  /ModDate (D:19700101000000Z)
  /DOCINFO pdfmark
[ {Catalog} << /ViewerPreferences << /DisplayDocTitle true >> >> /PUT pdfmark
`, dpi, dpi, dpi)
}
