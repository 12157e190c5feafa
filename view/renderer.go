package view

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Result 一次請求的輸出：狀態碼、樣板名稱、資料
type Result struct {
	Status   int
	Template string
	Data     gin.H
}

type Renderer interface {
	Render(c *gin.Context, result Result)
}

type JSONRenderer struct{}

func (JSONRenderer) Render(c *gin.Context, result Result) {
	c.JSON(result.Status, result.Data)
}

type HTMLRenderer struct {
	templates *template.Template
}

func NewHTMLRenderer() (*HTMLRenderer, error) {
	templates, err := template.New("").Funcs(template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{templates: templates}, nil
}

func (r *HTMLRenderer) Render(c *gin.Context, result Result) {
	if r.templates.Lookup(result.Template) == nil {
		c.String(http.StatusInternalServerError, "missing template %s", result.Template)
		return
	}
	c.Render(result.Status, render.HTML{
		Template: r.templates,
		Name:     result.Template,
		Data:     result.Data,
	})
}

// NegotiatingRenderer 依Accept決定回傳HTML或JSON，未指定時回傳JSON
type NegotiatingRenderer struct {
	HTML Renderer
	JSON Renderer
}

func (r NegotiatingRenderer) Render(c *gin.Context, result Result) {
	switch c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) {
	case gin.MIMEHTML:
		r.HTML.Render(c, result)
	default:
		r.JSON.Render(c, result)
	}
}

func New(mode string) (Renderer, error) {
	switch mode {
	case "json":
		return JSONRenderer{}, nil
	case "html":
		html, err := NewHTMLRenderer()
		if err != nil {
			return nil, err
		}
		return html, nil
	case "", "negotiate":
		html, err := NewHTMLRenderer()
		if err != nil {
			return nil, err
		}
		return NegotiatingRenderer{HTML: html, JSON: JSONRenderer{}}, nil
	default:
		return nil, fmt.Errorf("unknown view mode %q", mode)
	}
}
