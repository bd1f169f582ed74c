package transfer_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/adamwoolhether/dlverify/client"
	"github.com/adamwoolhether/dlverify/transfer"
)

func ExampleOrchestrator_Run() {
	body := []byte("hello")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"5d41402abc4b2a76b9719d911017c592"`)
		w.Header().Set("Content-Length", "5")
		if r.Method == http.MethodGet {
			_, _ = w.Write(body)
		}
	}))
	defer ts.Close()

	dir, err := os.MkdirTemp("", "example-transfer")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	c, err := client.Build()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	o, err := transfer.New(c)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	req, err := transfer.NewRequest(ts.URL+"/greeting.txt", dir)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	res, err := o.Run(context.Background(), req)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(res.Strategy, res.Written, res.Outcome)
	// Output: single 5 validated
}
