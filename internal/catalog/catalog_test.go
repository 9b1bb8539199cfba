package catalog

import "testing"

func TestStateInfoTranslucent(t *testing.T) {
	tests := []struct {
		layer string
		want  bool
	}{
		{LayerSolid, false},
		{LayerCutout, false},
		{LayerTranslucent, true},
		{LayerTripwire, true},
	}

	for _, tt := range tests {
		got := StateInfo{RenderLayer: tt.layer}.Translucent()
		if got != tt.want {
			t.Errorf("Translucent() for %q = %v, want %v", tt.layer, got, tt.want)
		}
	}
}

func TestNamespace(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"minecraft:stone", "minecraft"},
		{"create:andesite_casing", "create"},
		{"minecraft:furnace:lit=true", "minecraft"},
		{"stone", "minecraft"},
	}

	for _, tt := range tests {
		if got := Namespace(tt.id); got != tt.want {
			t.Errorf("Namespace(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestStateInfoShaderLayer(t *testing.T) {
	tests := []struct {
		layer string
		want  string
	}{
		{LayerSolid, "solid"},
		{LayerCutout, "cutout"},
		{LayerTranslucent, "translucent"},
		{LayerTripwire, "translucent"},
	}

	for _, tt := range tests {
		got := StateInfo{RenderLayer: tt.layer}.ShaderLayer()
		if got != tt.want {
			t.Errorf("ShaderLayer() for %q = %q, want %q", tt.layer, got, tt.want)
		}
	}
}
