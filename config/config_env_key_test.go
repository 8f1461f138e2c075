package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"backend": map[string]any{
			"provider": "",
			"appwrite": map[string]any{
				"projectId":  "",
				"databaseId": "",
			},
			"supabase": map[string]any{
				"anonKey": "",
			},
		},
		"secretKey": map[string]any{
			"session": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "BACKEND_PROVIDER", want: "backend.provider"},
		{envKey: "BACKEND_APPWRITE_PROJECTID", want: "backend.appwrite.projectId"},
		{envKey: "BACKEND_APPWRITE_DATABASEID", want: "backend.appwrite.databaseId"},
		{envKey: "BACKEND_SUPABASE_ANONKEY", want: "backend.supabase.anonKey"},
		{envKey: "SECRETKEY_SESSION", want: "secretKey.session"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}
