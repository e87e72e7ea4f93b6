package ghostscript

import (
	"fmt"
	"strings"
	"testing"
)

func TestOverrideScript_PinsResolution(t *testing.T) {
	for _, dpi := range []int{72, 150, 300, 600, 2400} {
		script := OverrideScript(dpi)

		for _, class := range []string{"Color", "Gray", "Mono"} {
			want := fmt.Sprintf("/%sImageResolution %d", class, dpi)
			if !strings.Contains(script, want) {
				t.Errorf("dpi %d: expected %q in script", dpi, want)
			}
			want = fmt.Sprintf("/%sImageDownsampleType /None", class)
			if !strings.Contains(script, want) {
				t.Errorf("dpi %d: expected %q in script", dpi, want)
			}
		}
	}
}

func TestOverrideScript_EncodingFilters(t *testing.T) {
	script := OverrideScript(300)

	for _, want := range []string{
		"/ColorImageFilter /FlateEncode",
		"/GrayImageFilter /FlateEncode",
		"/MonoImageFilter /CCITTFaxEncode",
		"/AutoFilterColorImages false",
		"/AutoFilterGrayImages false",
		"setdistillerparams",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("Expected %q in script", want)
		}
	}
}

func TestOverrideScript_FixedMetadata(t *testing.T) {
	script := OverrideScript(300)

	for _, want := range []string{
		"/Title (Normalized Document)",
		"/Producer (pdf-normalizer)",
		"/CreationDate (D:19700101000000Z)",
		"/ModDate (D:19700101000000Z)",
		"/DOCINFO pdfmark",
		"/ViewerPreferences",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("Expected %q in script", want)
		}
	}
}

func TestOverrideScript_Deterministic(t *testing.T) {
	if OverrideScript(300) != OverrideScript(300) {
		t.Error("Expected identical scripts for identical DPI")
	}
	if OverrideScript(300) == OverrideScript(301) {
		t.Error("Expected different scripts for different DPI")
	}
}
