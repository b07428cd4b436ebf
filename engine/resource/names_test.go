package resource

import "testing"

func TestNames(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{ColorName(3), "Color3"},
		{DepthStencilName(3), "DepthStencil3"},
		{ShadowMapName(0), "ShadowMap0"},
		{ShadowDepthName(0), "ShadowDepth0"},
		{ParityDepthName(2, 1), "DepthStencil2_1"},
		{ParityDepthName(2, 3), "DepthStencil2_1"},
		{HiZName(2, 0), "HiZBuffer2_0"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("name = %q, want %q", tt.got, tt.want)
		}
	}
}
