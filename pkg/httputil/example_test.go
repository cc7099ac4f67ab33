package httputil_test

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/z9m/backdrop/pkg/httputil"
)

func ExampleCache() {
	dir := filepath.Join(os.TempDir(), "backdrop-example")
	defer os.RemoveAll(dir)

	cache, err := httputil.NewCache(dir, 24*time.Hour)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	if err := cache.Set("https://example.com/logo.png", []byte("PNG")); err != nil {
		fmt.Println("Error:", err)
		return
	}

	data, ok, err := cache.Get("https://example.com/logo.png")
	fmt.Println(string(data), ok, err)
	// Output:
	// PNG true <nil>
}

func ExampleFetcher_Resolve() {
	f := httputil.NewFetcher(httputil.WithBaseURL("http://jellyfin:8096"))
	u, _ := f.Resolve("/Items/42/Images/Backdrop")
	fmt.Println(u)
	// Output:
	// http://jellyfin:8096/Items/42/Images/Backdrop
}
