package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/luskyqi1995/topobuilder/pkg/form"
)

func TestCaseFromArchitecture(t *testing.T) {
	srv := httptest.NewServer(New().Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/case", "application/json",
		strings.NewReader(`{"name": "2H4E2H", "architecture": "2H.4E.2H"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/x-yaml" {
		t.Errorf("content type = %q", got)
	}

	var c form.Case
	if err := yaml.NewDecoder(resp.Body).Decode(&c); err != nil {
		t.Fatal(err)
	}
	if c.Name() != "2H4E2H" {
		t.Errorf("name = %q", c.Name())
	}
	if got := c.Shape(); len(got) != 3 || got[0] != 2 || got[1] != 4 || got[2] != 2 {
		t.Errorf("Shape() = %v, want [2 4 2]", got)
	}
}

func TestCaseRejectsBothSources(t *testing.T) {
	srv := httptest.NewServer(New().Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/case", "application/json",
		strings.NewReader(`{"name": "x", "architecture": "2H", "topology": "A1H.A2H"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestCaseRequiresName(t *testing.T) {
	srv := httptest.NewServer(New().Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/case", "application/json",
		strings.NewReader(`{"architecture": "2H"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestAbsolute(t *testing.T) {
	srv := httptest.NewServer(New().Handler())
	defer srv.Close()

	c, err := form.New("demo").AddArchitecture("2E.1H")
	if err != nil {
		t.Fatal(err)
	}
	body, err := yaml.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(srv.URL+"/api/absolute", "application/x-yaml",
		strings.NewReader(string(body)))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var abs form.Case
	if err := yaml.NewDecoder(resp.Body).Decode(&abs); err != nil {
		t.Fatal(err)
	}
	if !abs.IsAbsolute() {
		t.Error("response case is still relative")
	}
}

func TestAbsoluteRejectsGarbage(t *testing.T) {
	srv := httptest.NewServer(New().Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/absolute", "text/plain",
		strings.NewReader("{{{not a case"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestSketch(t *testing.T) {
	srv := httptest.NewServer(New().Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/case/demo/sketch.svg?architecture=2E.1H")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("content type = %q", got)
	}
}

func TestSketchUnknownView(t *testing.T) {
	srv := httptest.NewServer(New().Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/case/demo/sketch.svg?architecture=2E.1H&view=sideways")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
