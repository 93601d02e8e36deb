package cordova

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/ionx/internal/errors"
)

func mkdir(t *testing.T, parts ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(parts...), 0o755))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestProbe_IsPlatformInstalled(t *testing.T) {
	dir := t.TempDir()
	p := NewProbe()

	assert.False(t, p.IsPlatformInstalled("ios", dir))

	writeFile(t, filepath.Join(dir, "platforms", "ios"), "not a dir")
	assert.False(t, p.IsPlatformInstalled("ios", dir), "a file is not a platform")

	mkdir(t, dir, "platforms", "android")
	assert.True(t, p.IsPlatformInstalled("android", dir))
	assert.Equal(t, []string{"android"}, p.InstalledPlatforms(dir))
}

func TestProbe_ArePluginsInstalled(t *testing.T) {
	tests := []struct {
		name    string
		pkg     string
		plugins []string
		want    bool
	}{
		{"no plugins dir", "", nil, false},
		{"plugins dir, no package.json", "", []string{}, true},
		{"all declared present (object)", `{"cordova":{"plugins":{"cordova-plugin-device":{},"ionic-plugin-keyboard":{}}}}`,
			[]string{"cordova-plugin-device", "ionic-plugin-keyboard"}, true},
		{"one declared missing", `{"cordova":{"plugins":{"cordova-plugin-device":{},"ionic-plugin-keyboard":{}}}}`,
			[]string{"cordova-plugin-device"}, false},
		{"array form", `{"cordova":{"plugins":["cordova-plugin-device"]}}`, []string{"cordova-plugin-device"}, true},
		{"invalid package.json ignored", `{`, []string{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.pkg != "" {
				writeFile(t, filepath.Join(dir, "package.json"), tt.pkg)
			}
			if tt.plugins != nil {
				mkdir(t, dir, "plugins")
				for _, id := range tt.plugins {
					mkdir(t, dir, "plugins", id)
				}
			}
			assert.Equal(t, tt.want, NewProbe().ArePluginsInstalled(dir))
		})
	}
}

func TestRequiredPlugins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{"cordova":{"plugins":{"b":{},"a":{"VAR":"x"}}}}`)
	assert.Equal(t, []string{"a", "b"}, RequiredPlugins(dir))
	assert.Nil(t, RequiredPlugins(t.TempDir()))
}

const sampleConfigXML = `<?xml version='1.0' encoding='utf-8'?>
<widget id="com.ionicframework.app" version="0.0.1" xmlns="http://www.w3.org/ns/widgets">
    <name>app</name>
    <content src="index.html" />
    <access origin="*" />
</widget>
`

func TestSetContentSrc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.xml")
	writeFile(t, path, sampleConfigXML)

	require.NoError(t, SetContentSrc(path, "http://192.168.1.2:8100"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://192.168.1.2:8100", ContentSrc(data))
	assert.Contains(t, string(data), `<access origin="*" />`)

	require.NoError(t, SetContentSrc(path, DefaultContentSrc))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleConfigXML, string(data), "restore yields the original bytes")
}

func TestSetContentSrc_InsertsMissingElement(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.xml")
	writeFile(t, path, "<widget>\n</widget>\n")

	require.NoError(t, SetContentSrc(path, "index.html"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "index.html", ContentSrc(data))
}

func TestSetContentSrc_Errors(t *testing.T) {
	dir := t.TempDir()

	err := SetContentSrc(filepath.Join(dir, "config.xml"), "x")
	assert.Equal(t, errors.KindConfigRead, errors.KindOf(err))

	path := filepath.Join(dir, "bad.xml")
	writeFile(t, path, "<plist></plist>")
	err = SetContentSrc(path, "x")
	assert.Equal(t, errors.KindConfigParse, errors.KindOf(err))
}

func TestContentSrc_EscapesAttribute(t *testing.T) {
	out, err := replaceContentSrc([]byte(`<content src='a' />`), `x"&y`)
	require.NoError(t, err)
	assert.Equal(t, `<content src="x&quot;&amp;y" />`, string(out))
}

func TestDiscoverAddresses(t *testing.T) {
	list := func() ([]net.Addr, error) {
		return []net.Addr{
			&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)},
			&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
			&net.IPNet{IP: net.ParseIP("169.254.3.4"), Mask: net.CIDRMask(16, 32)},
			&net.IPNet{IP: net.ParseIP("192.168.1.20"), Mask: net.CIDRMask(24, 32)},
			&net.IPAddr{IP: net.ParseIP("10.0.0.7")},
			&net.IPNet{IP: net.ParseIP("192.168.1.20"), Mask: net.CIDRMask(24, 32)},
		}, nil
	}
	got, err := DiscoverAddresses(list)
	require.NoError(t, err)
	assert.Equal(t, []string{"192.168.1.20", "10.0.0.7"}, got)

	_, err = DiscoverAddresses(func() ([]net.Addr, error) { return nil, errors.New("boom") })
	assert.Error(t, err)
}
