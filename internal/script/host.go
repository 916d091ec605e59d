package script

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/traefik/yaegi/interp"

	"github.com/apotek-labs/apotek/internal/engine"
	"github.com/apotek-labs/apotek/internal/shell"
)

// HostImport is the import path of the helper package seen by scripts.
const HostImport = "apotek/host"

// host binds the helpers of one turn. ctx is the context of the script
// function currently running.
type host struct {
	tb  engine.Toolbox
	ctx context.Context
}

func (h *host) shell(script string) (string, error) {
	sh := h.tb.Shell()
	if sh == nil {
		return "", fmt.Errorf("shell is not available")
	}
	out, err := sh.Run(h.ctx, h.tb.CurrentFolder(), script)
	if out == nil {
		return "", err
	}
	return out.Stdout, err
}

func (h *host) render(src, dst string, data map[string]interface{}) ([]string, error) {
	r := h.tb.Renderer()
	if r == nil {
		return nil, fmt.Errorf("renderer is not available")
	}
	return r.RenderDir(src, dst, data)
}

func (h *host) renderString(tmpl string, data map[string]interface{}) (string, error) {
	r := h.tb.Renderer()
	if r == nil {
		return "", fmt.Errorf("renderer is not available")
	}
	return r.RenderString(tmpl, data)
}

func (h *host) get(url string) (string, error) {
	c := h.tb.REST()
	if c == nil {
		return "", fmt.Errorf("http client is not available")
	}
	resp, err := c.Get(h.ctx, url)
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}

// query fetches url and returns the gjson path of its JSON body.
func (h *host) query(url, path string) (string, error) {
	c := h.tb.REST()
	if c == nil {
		return "", fmt.Errorf("http client is not available")
	}
	resp, err := c.Get(h.ctx, url)
	if err != nil {
		return "", err
	}
	return resp.Get(path).String(), nil
}

func (h *host) post(url string, body interface{}) (string, error) {
	c := h.tb.REST()
	if c == nil {
		return "", fmt.Errorf("http client is not available")
	}
	resp, err := c.Post(h.ctx, url, body)
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}

func (h *host) templates(folder string) []string {
	var ids []string
	for _, e := range h.tb.Templates(folder) {
		ids = append(ids, e.ID())
	}
	return ids
}

func (h *host) exports() interp.Exports {
	return interp.Exports{
		HostImport + "/host": {
			"Shell":           reflect.ValueOf(h.shell),
			"Render":          reflect.ValueOf(h.render),
			"RenderString":    reflect.ValueOf(h.renderString),
			"Get":             reflect.ValueOf(h.get),
			"Post":            reflect.ValueOf(h.post),
			"Query":           reflect.ValueOf(h.query),
			"Which":           reflect.ValueOf(shell.Which),
			"Templates":       reflect.ValueOf(h.templates),
			"Directories":     reflect.ValueOf(func(folder string) []string { return slices.Collect(h.tb.Directories(folder)) }),
			"CurrentFolder":   reflect.ValueOf(h.tb.CurrentFolder),
			"CommandFolder":   reflect.ValueOf(h.tb.CommandFolder),
			"CommandName":     reflect.ValueOf(h.tb.CommandName),
			"TemplatesFolder": reflect.ValueOf(h.tb.TemplatesFolder),
		},
	}
}
