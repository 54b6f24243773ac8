package transform

import (
	"errors"
	"fmt"
	"testing"

	"github.com/omekit/czi2ome/czi"
)

func imageDocument(imageFields, hardware string) string {
	return `<ImageDocument><Metadata>
		<Information><Image>` + imageFields + `</Image></Information>` + hardware + `
	</Metadata></ImageDocument>`
}

func TestResolvePixels_SpecScenario(t *testing.T) {
	// Gray16 with absent SizeZ and an authoritative hardware frame.
	src := imageDocument(
		`<PixelType>Gray16</PixelType><SizeC>2</SizeC><SizeT>3</SizeT>
		 <SizeX>2048</SizeX><SizeY>2048</SizeY>`,
		`<HardwareSetting><ParameterCollection>
			<Binning Status="SuperValid">1,1</Binning>
			<ImageFrame>0,0,512,256</ImageFrame>
		 </ParameterCollection></HardwareSetting>`)

	p := newTestPass(mustParse(t, src), nil)
	px, err := p.resolvePixels(czi.Scene{Index: 0})
	if err != nil {
		t.Fatalf("resolvePixels() error = %v", err)
	}

	if px.Type != "uint16" {
		t.Errorf("Type = %q, want uint16", px.Type)
	}
	if px.SizeX != 512 || px.SizeY != 256 {
		t.Errorf("SizeX,SizeY = %d,%d, want 512,256", px.SizeX, px.SizeY)
	}
	if px.SizeZ != 1 || px.SizeC != 2 || px.SizeT != 3 {
		t.Errorf("SizeZ,SizeC,SizeT = %d,%d,%d, want 1,2,3", px.SizeZ, px.SizeC, px.SizeT)
	}
	if px.DimensionOrder != "XYZCT" {
		t.Errorf("DimensionOrder = %q, want XYZCT", px.DimensionOrder)
	}
	if len(p.diags) != 0 {
		t.Errorf("diagnostics = %v, want none", p.diags)
	}
}

func TestResolveFrameSize_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		hardware string
		wantX    int
		wantY    int
	}{
		{
			name: "valid-status record preferred over earlier record",
			hardware: `<HardwareSetting>
				<ParameterCollection><ImageFrame>0,0,100,100</ImageFrame></ParameterCollection>
				<ParameterCollection>
					<Binning Status="SuperValid">1,1</Binning>
					<ImageFrame>0,0,512,256</ImageFrame>
				</ParameterCollection>
			</HardwareSetting>`,
			wantX: 512, wantY: 256,
		},
		{
			name: "any frame record when none has valid status",
			hardware: `<HardwareSetting>
				<ParameterCollection><Binning Status="Invalid">1,1</Binning><ImageFrame>0,0,100,200</ImageFrame></ParameterCollection>
			</HardwareSetting>`,
			wantX: 100, wantY: 200,
		},
		{
			name:     "image sizes when no frame record exists",
			hardware: `<HardwareSetting><ParameterCollection><Position>5</Position></ParameterCollection></HardwareSetting>`,
			wantX:    2048, wantY: 1024,
		},
		{
			name:     "image sizes when no hardware records at all",
			hardware: ``,
			wantX:    2048, wantY: 1024,
		},
		{
			name: "record without binning still eligible as fallback",
			hardware: `<HardwareSetting>
				<ParameterCollection><ImageFrame>0,0,640,480</ImageFrame></ParameterCollection>
			</HardwareSetting>`,
			wantX: 640, wantY: 480,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := imageDocument(`<SizeX>2048</SizeX><SizeY>1024</SizeY>`, tt.hardware)
			p := newTestPass(mustParse(t, src), nil)

			x, y := p.resolveFrameSize(czi.Scene{Index: 0}, p.doc.Image())
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("resolveFrameSize() = %d,%d, want %d,%d", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestResolveFrameSize_MalformedFrame(t *testing.T) {
	// The authoritative record is malformed; resolution continues down
	// the chain to the plain record and reports the bad tuple.
	src := imageDocument(`<SizeX>2048</SizeX><SizeY>1024</SizeY>`,
		`<HardwareSetting>
			<ParameterCollection>
				<Binning Status="SuperValid">1,1</Binning>
				<ImageFrame>512</ImageFrame>
			</ParameterCollection>
			<ParameterCollection><ImageFrame>0,0,256,128</ImageFrame></ParameterCollection>
		</HardwareSetting>`)

	p := newTestPass(mustParse(t, src), nil)
	x, y := p.resolveFrameSize(czi.Scene{Index: 0}, p.doc.Image())

	if x != 256 || y != 128 {
		t.Errorf("resolveFrameSize() = %d,%d, want 256,128", x, y)
	}
	d := findDiagnostic(p.diags, "PIX002")
	if d == nil {
		t.Fatalf("diagnostics = %v, want PIX002", p.diags)
	}
	if d.Severity != SeverityWarning {
		t.Errorf("PIX002 severity = %v, want warning", d.Severity)
	}
}

func TestParseImageFrame(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantW  int
		wantH  int
		wantOK bool
	}{
		{name: "plain tuple", text: "0,0,512,256", wantW: 512, wantH: 256, wantOK: true},
		{name: "spaces tolerated", text: "0, 0, 640, 480", wantW: 640, wantH: 480, wantOK: true},
		{name: "offset fields ignored", text: "128,64,512,256", wantW: 512, wantH: 256, wantOK: true},
		{name: "too few fields", text: "0,0,512", wantOK: false},
		{name: "non-numeric size", text: "0,0,wide,256", wantOK: false},
		{name: "zero size", text: "0,0,0,256", wantOK: false},
		{name: "empty", text: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, ok := parseImageFrame(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("parseImageFrame(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if ok && (w != tt.wantW || h != tt.wantH) {
				t.Errorf("parseImageFrame(%q) = %d,%d, want %d,%d", tt.text, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResolvePixels_SingletonDefaults(t *testing.T) {
	tests := []struct {
		name   string
		fields string
		wantZ  int
		wantC  int
		wantT  int
	}{
		{
			name:   "all absent",
			fields: `<SizeX>64</SizeX><SizeY>64</SizeY>`,
			wantZ:  1, wantC: 1, wantT: 1,
		},
		{
			name:   "present values pass through",
			fields: `<SizeX>64</SizeX><SizeY>64</SizeY><SizeZ>5</SizeZ><SizeC>3</SizeC><SizeT>10</SizeT>`,
			wantZ:  5, wantC: 3, wantT: 10,
		},
		{
			name:   "non-positive values fall back to 1",
			fields: `<SizeX>64</SizeX><SizeY>64</SizeY><SizeZ>0</SizeZ><SizeC>-2</SizeC>`,
			wantZ:  1, wantC: 1, wantT: 1,
		},
		{
			name:   "non-numeric values fall back to 1",
			fields: `<SizeX>64</SizeX><SizeY>64</SizeY><SizeZ>many</SizeZ>`,
			wantZ:  1, wantC: 1, wantT: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := imageDocument(`<PixelType>Gray8</PixelType>`+tt.fields, ``)
			p := newTestPass(mustParse(t, src), nil)

			px, err := p.resolvePixels(czi.Scene{Index: 0})
			if err != nil {
				t.Fatalf("resolvePixels() error = %v", err)
			}
			if px.SizeZ != tt.wantZ || px.SizeC != tt.wantC || px.SizeT != tt.wantT {
				t.Errorf("SizeZ,SizeC,SizeT = %d,%d,%d, want %d,%d,%d",
					px.SizeZ, px.SizeC, px.SizeT, tt.wantZ, tt.wantC, tt.wantT)
			}
		})
	}
}

func TestResolvePixels_TypeMapping(t *testing.T) {
	tests := []struct {
		encoding string
		want     string
	}{
		{encoding: "Gray8", want: "uint8"},
		{encoding: "Bgr24", want: "uint8"},
		{encoding: "Gray16", want: "uint16"},
		{encoding: "Bgr48", want: "uint16"},
		{encoding: "Gray32Float", want: "float"},
		{encoding: "Bgr96Float", want: "float"},
		{encoding: "Gray64Float", want: "double"},
		{encoding: "Gray64ComplexFloat", want: "complex"},
		{encoding: "Bgr192ComplexFloat", want: "complex"},
	}

	for _, tt := range tests {
		t.Run(tt.encoding, func(t *testing.T) {
			src := imageDocument(fmt.Sprintf(
				`<PixelType>%s</PixelType><SizeX>64</SizeX><SizeY>64</SizeY>`, tt.encoding), ``)
			p := newTestPass(mustParse(t, src), nil)

			px, err := p.resolvePixels(czi.Scene{Index: 0})
			if err != nil {
				t.Fatalf("resolvePixels() error = %v", err)
			}
			if px.Type != tt.want {
				t.Errorf("Type = %q, want %q", px.Type, tt.want)
			}
			if len(p.diags) != 0 {
				t.Errorf("diagnostics = %v, want none", p.diags)
			}
		})
	}
}

func TestResolvePixels_UnmappedType(t *testing.T) {
	tests := []struct {
		name   string
		fields string
	}{
		{name: "unknown encoding", fields: `<PixelType>Gray32</PixelType><SizeX>64</SizeX><SizeY>64</SizeY>`},
		{name: "no encoding at all", fields: `<SizeX>64</SizeX><SizeY>64</SizeY>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPass(mustParse(t, imageDocument(tt.fields, ``)), nil)

			px, err := p.resolvePixels(czi.Scene{Index: 0})
			if err != nil {
				t.Fatalf("resolvePixels() error = %v", err)
			}
			// No Type attribute, never a crash; validation catches it later.
			if px.Type != "" {
				t.Errorf("Type = %q, want empty", px.Type)
			}
			if findDiagnostic(p.diags, "PIX001") == nil {
				t.Errorf("diagnostics = %v, want PIX001", p.diags)
			}
		})
	}
}

func TestResolvePixels_SignificantBits(t *testing.T) {
	src := imageDocument(`<PixelType>Gray16</PixelType><ComponentBitCount>14</ComponentBitCount>
		<SizeX>64</SizeX><SizeY>64</SizeY>`, ``)
	p := newTestPass(mustParse(t, src), nil)

	px, err := p.resolvePixels(czi.Scene{Index: 0})
	if err != nil {
		t.Fatalf("resolvePixels() error = %v", err)
	}
	if px.SignificantBits != 14 {
		t.Errorf("SignificantBits = %d, want 14", px.SignificantBits)
	}

	src = imageDocument(`<PixelType>Gray16</PixelType><SizeX>64</SizeX><SizeY>64</SizeY>`, ``)
	p = newTestPass(mustParse(t, src), nil)
	px, err = p.resolvePixels(czi.Scene{Index: 0})
	if err != nil {
		t.Fatalf("resolvePixels() error = %v", err)
	}
	if px.SignificantBits != 0 {
		t.Errorf("SignificantBits = %d, want 0 when absent", px.SignificantBits)
	}
}

func TestPhysicalSize(t *testing.T) {
	tests := []struct {
		name      string
		scaling   string
		dimension string
		wantValue string
		wantUnit  string
	}{
		{
			name:      "meters to micrometers",
			scaling:   `<Distance Id="X"><Value>0.0000002</Value></Distance>`,
			dimension: "X",
			wantValue: "0.2",
			wantUnit:  "µm",
		},
		{
			name:      "zero emits nothing",
			scaling:   `<Distance Id="Y"><Value>0</Value></Distance>`,
			dimension: "Y",
		},
		{
			name:      "negative emits nothing",
			scaling:   `<Distance Id="Z"><Value>-0.000001</Value></Distance>`,
			dimension: "Z",
		},
		{
			name:      "absent emits nothing",
			scaling:   `<Distance Id="X"><Value>0.0000002</Value></Distance>`,
			dimension: "Z",
		},
		{
			name:      "whole micrometer",
			scaling:   `<Distance Id="X"><Value>0.000001</Value></Distance>`,
			dimension: "X",
			wantValue: "1",
			wantUnit:  "µm",
		},
		{
			name:      "sub-nanometer keeps precision",
			scaling:   `<Distance Id="X"><Value>9.9986e-11</Value></Distance>`,
			dimension: "X",
			wantValue: "9.9986e-05",
			wantUnit:  "µm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `<Metadata>
				<Information><Image><SizeX>64</SizeX><SizeY>64</SizeY></Image></Information>
				<Scaling><Items>` + tt.scaling + `</Items></Scaling>
			</Metadata>`
			p := newTestPass(mustParse(t, src), nil)

			value, unit := p.physicalSize(tt.dimension)
			if value != tt.wantValue || unit != tt.wantUnit {
				t.Errorf("physicalSize(%q) = %q,%q, want %q,%q",
					tt.dimension, value, unit, tt.wantValue, tt.wantUnit)
			}
		})
	}
}

func TestCheckDimensionUniformity(t *testing.T) {
	doc := mustParse(t, imageDocument(`<SizeX>512</SizeX><SizeY>256</SizeY>`, ``))

	t.Run("matching extents pass silently", func(t *testing.T) {
		p := newTestPass(doc, []czi.Subblock{{Scene: 0, Width: 512, Height: 256}})
		if err := p.checkDimensionUniformity(czi.Scene{Index: 0}, 512, 256); err != nil {
			t.Fatalf("checkDimensionUniformity() error = %v", err)
		}
		if len(p.diags) != 0 {
			t.Errorf("diagnostics = %v, want none", p.diags)
		}
	})

	t.Run("mismatch records one finding per scene", func(t *testing.T) {
		p := newTestPass(doc, []czi.Subblock{
			{Scene: 0, Width: 100, Height: 100},
			{Scene: 0, Width: 200, Height: 200},
		})
		if err := p.checkDimensionUniformity(czi.Scene{Index: 0}, 512, 256); err != nil {
			t.Fatalf("checkDimensionUniformity() error = %v", err)
		}
		if len(p.diags) != 1 || p.diags[0].Code != "PIX003" {
			t.Errorf("diagnostics = %v, want exactly one PIX003", p.diags)
		}
	})

	t.Run("other scenes ignored", func(t *testing.T) {
		p := newTestPass(doc, []czi.Subblock{{Scene: 3, Width: 100, Height: 100}})
		if err := p.checkDimensionUniformity(czi.Scene{Index: 0}, 512, 256); err != nil {
			t.Fatalf("checkDimensionUniformity() error = %v", err)
		}
		if len(p.diags) != 0 {
			t.Errorf("diagnostics = %v, want none", p.diags)
		}
	})

	t.Run("extentless descriptors ignored", func(t *testing.T) {
		p := newTestPass(doc, []czi.Subblock{{Scene: 0}})
		if err := p.checkDimensionUniformity(czi.Scene{Index: 0}, 512, 256); err != nil {
			t.Fatalf("checkDimensionUniformity() error = %v", err)
		}
		if len(p.diags) != 0 {
			t.Errorf("diagnostics = %v, want none", p.diags)
		}
	})

	t.Run("strict mode returns the mismatch", func(t *testing.T) {
		p := newTestPass(doc, []czi.Subblock{{Scene: 0, Width: 100, Height: 100}})
		p.strict = true
		err := p.checkDimensionUniformity(czi.Scene{Index: 0}, 512, 256)
		if !errors.Is(err, ErrDimensionMismatch) {
			t.Fatalf("checkDimensionUniformity() error = %v, want ErrDimensionMismatch", err)
		}
	})
}
