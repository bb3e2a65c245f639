package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(context.Background(), envconfig.MapLookuper(map[string]string{
		"TASKFLOW_TOKEN":   "tok",
		"TASKFLOW_API_URL": "http://api.local/",
	}))
	require.NoError(t, err)

	require.Equal(t, 30*time.Second, cfg.RefreshInterval)
	require.Equal(t, 5.0, cfg.DefaultRadiusKm)
	require.Equal(t, Point{Lat: DefaultFallbackLat, Lng: DefaultFallbackLng}, cfg.Fallback())
	require.Equal(t, Session{BaseURL: "http://api.local", Token: "tok"}, cfg.Session())
}

func TestLoadConfig_Rejects(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing token", map[string]string{}},
		{"radius too large", map[string]string{"TASKFLOW_TOKEN": "t", "DISCOVERY_RADIUS_KM": "80"}},
		{"radius too small", map[string]string{"TASKFLOW_TOKEN": "t", "DISCOVERY_RADIUS_KM": "0.5"}},
		{"zero interval", map[string]string{"TASKFLOW_TOKEN": "t", "DISCOVERY_REFRESH_INTERVAL": "0s"}},
		{"bad fallback", map[string]string{"TASKFLOW_TOKEN": "t", "DISCOVERY_FALLBACK_LAT": "95"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadConfig(context.Background(), envconfig.MapLookuper(tc.env))
			require.Error(t, err)
		})
	}
}

func TestNewPoint(t *testing.T) {
	p, err := NewPoint(17.385, 78.4867)
	require.NoError(t, err)
	require.Equal(t, "17.38500,78.48670", p.String())

	_, err = NewPoint(0, 181)
	require.Error(t, err)
}
