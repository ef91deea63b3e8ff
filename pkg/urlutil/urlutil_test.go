package urlutil

import "testing"

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name    string
		urlStr  string
		baseURL string
		want    string
	}{
		{
			name:    "absolute URL unchanged",
			urlStr:  "https://mirror.example.com/addons.xml",
			baseURL: "https://example.com/repo/",
			want:    "https://mirror.example.com/addons.xml",
		},
		{
			name:    "relative file",
			urlStr:  "addons.xml.md5",
			baseURL: "https://example.com/repo/addons.xml",
			want:    "https://example.com/repo/addons.xml.md5",
		},
		{
			name:    "relative nested path",
			urlStr:  "service.subtitles.localfiles/service.subtitles.localfiles-1.0.0.zip",
			baseURL: "https://example.com/repo/",
			want:    "https://example.com/repo/service.subtitles.localfiles/service.subtitles.localfiles-1.0.0.zip",
		},
		{
			name:    "dot slash prefix",
			urlStr:  "./addons.xml",
			baseURL: "https://example.com/repo/",
			want:    "https://example.com/repo/addons.xml",
		},
		{
			name:    "absolute path",
			urlStr:  "/other/addons.xml",
			baseURL: "https://example.com/repo/addons.xml",
			want:    "https://example.com/other/addons.xml",
		},
		{
			name:    "parent directory reference",
			urlStr:  "../zips/addons.xml",
			baseURL: "https://example.com/a/repo/addons.xml",
			want:    "https://example.com/a/zips/addons.xml",
		},
		{
			name:    "preserves special characters",
			urlStr:  "addon(1).zip",
			baseURL: "https://example.com/repo(main)/",
			want:    "https://example.com/repo(main)/addon(1).zip",
		},
		{
			name:    "base with query string",
			urlStr:  "addons.xml",
			baseURL: "https://example.com/repo/index.html?ref=main",
			want:    "https://example.com/repo/addons.xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveURL(tt.urlStr, tt.baseURL); got != tt.want {
				t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.urlStr, tt.baseURL, got, tt.want)
			}
		})
	}
}

func TestDirURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://example.com/repo", "https://example.com/repo/"},
		{"https://example.com/repo/", "https://example.com/repo/"},
		{"http://127.0.0.1:8080?x=1", "http://127.0.0.1:8080/"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DirURL(tt.input); got != tt.want {
				t.Errorf("DirURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
