package delivery

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samueldmelo/logfoto/internal/domain"
	"github.com/samueldmelo/logfoto/internal/usecase"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const dateTimeLayout = "02/01/2006 15:04:05"

// Notices shown on the list after a redirect, keyed by the msg parameter.
var notices = map[string]string{
	"atualizado": "Produto atualizado com sucesso!",
	"excluido":   "Produto excluído com sucesso!",
}

// WebHandler renders the registration and browse pages.
type WebHandler struct {
	useCase usecase.ProductUseCase
	loc     *time.Location
	log     *logrus.Logger
}

func NewWebHandler(uc usecase.ProductUseCase, loc *time.Location, logger *logrus.Logger) *WebHandler {
	return &WebHandler{
		useCase: uc,
		loc:     loc,
		log:     logger,
	}
}

// Templates parses the embedded pages with the helpers they use.
func (h *WebHandler) Templates() (*template.Template, error) {
	funcs := template.FuncMap{
		"datetime": func(t time.Time) string {
			return t.In(h.loc).Format(dateTimeLayout)
		},
		"card": func(p domain.Product, back string) productCard {
			return productCard{Product: p, Back: back}
		},
		"upper":      domain.NormalizeColor,
		"variations": usecase.Variations,
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
}

func (h *WebHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/cadastro")
	})
	router.GET("/cadastro", h.ShowRegistration)
	router.POST("/cadastro", h.SubmitRegistration)

	consulta := router.Group("/consulta")
	{
		consulta.GET("", h.Browse)
		consulta.GET("/:id/editar", h.ShowEdit)
		consulta.POST("/:id", h.SubmitEdit)
		consulta.POST("/:id/excluir", h.Delete)
	}
}

type page struct {
	Tab         string
	Error       string
	Notice      string
	FlashMillis int64
}

// productCard is one product on the list, with the list query to return to.
type productCard struct {
	Product domain.Product
	Back    string
}

type formView struct {
	Values domain.NewProduct
	Errors map[string]string
}

type cadastroPage struct {
	page
	Form       formView
	Success    bool
	Categorias []string
	Tamanhos   []string
}

type consultaPage struct {
	page
	Filter        domain.ProductFilter
	FilterActive  bool
	Listing       *usecase.Listing
	Grouped       bool
	GroupedURL    string
	IndividualURL string
	ClearURL      string
	Back          string
	Categorias    []string
	Tamanhos      []string
}

type editarPage struct {
	page
	Product    *domain.Product
	Form       formView
	Back       string
	CancelURL  string
	Categorias []string
	Tamanhos   []string
}

func newPage(tab string) page {
	return page{Tab: tab, FlashMillis: domain.SuccessFlashDuration.Milliseconds()}
}

func categoriaOptions() []string {
	out := make([]string, 0, len(domain.Categorias))
	for _, c := range domain.Categorias {
		out = append(out, string(c))
	}
	return out
}

func tamanhoOptions() []string {
	out := make([]string, 0, len(domain.Tamanhos))
	for _, t := range domain.Tamanhos {
		out = append(out, string(t))
	}
	return out
}

func (h *WebHandler) ShowRegistration(c *gin.Context) {
	c.HTML(http.StatusOK, "cadastro.tmpl", cadastroPage{
		page:       newPage("cadastro"),
		Success:    c.Query("ok") == "1",
		Categorias: categoriaOptions(),
		Tamanhos:   tamanhoOptions(),
	})
}

func (h *WebHandler) SubmitRegistration(c *gin.Context) {
	var form domain.NewProduct
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warnf("Failed to bind registration form: %v", err)
	}

	created, err := h.useCase.Register(c.Request.Context(), form)
	if err == nil {
		h.log.Infof("Product registered from web form: ID %s, SKU %s", created.ID, created.SKU)
		c.Redirect(http.StatusSeeOther, "/cadastro?ok=1")
		return
	}

	data := cadastroPage{
		page:       newPage("cadastro"),
		Form:       formView{Values: form},
		Categorias: categoriaOptions(),
		Tamanhos:   tamanhoOptions(),
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		data.Form.Errors = ve.Fields
	} else {
		h.log.Errorf("Erro ao salvar produto: %v", err)
		data.Error = "Erro ao salvar produto: " + err.Error()
	}
	c.HTML(mapErrorToStatus(err), "cadastro.tmpl", data)
}

func (h *WebHandler) Browse(c *gin.Context) {
	filter := filterFromQuery(c)
	mode := usecase.ParseViewMode(c.Query("view"))

	data := newConsultaPage(filter, mode)
	data.Notice = notices[c.Query("msg")]

	listing, err := h.useCase.Browse(c.Request.Context(), filter, mode)
	if err != nil {
		h.log.Errorf("Erro ao carregar produtos: %v", err)
		data.Error = "Erro ao carregar produtos: " + err.Error()
		c.HTML(mapErrorToStatus(err), "consulta.tmpl", data)
		return
	}
	data.Listing = listing
	c.HTML(http.StatusOK, "consulta.tmpl", data)
}

func newConsultaPage(filter domain.ProductFilter, mode usecase.ViewMode) consultaPage {
	return consultaPage{
		page:          newPage("consulta"),
		Filter:        filter,
		FilterActive:  filter.State() == domain.FilterActive,
		Grouped:       mode == usecase.ViewGrouped,
		GroupedURL:    consultaURL(filter, usecase.ViewGrouped),
		IndividualURL: consultaURL(filter, usecase.ViewIndividual),
		ClearURL:      consultaURL(domain.ProductFilter{}, mode),
		Back:          browseQuery(filter, mode).Encode(),
		Categorias:    categoriaOptions(),
		Tamanhos:      tamanhoOptions(),
	}
}

func (h *WebHandler) ShowEdit(c *gin.Context) {
	id := c.Param("id")
	data := editarPage{
		page:       newPage("consulta"),
		Back:       c.Query("back"),
		CancelURL:  backURL(c.Query("back"), ""),
		Categorias: categoriaOptions(),
		Tamanhos:   tamanhoOptions(),
	}

	product, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to load product %s for edit: %v", id, err)
		data.Error = "Erro ao carregar produto: " + err.Error()
		c.HTML(mapErrorToStatus(err), "editar.tmpl", data)
		return
	}

	data.Product = product
	data.Form.Values = domain.NewProduct{SKU: product.SKU, Categoria: product.Categoria, Tamanho: product.Tamanho, Cor: product.Cor}
	c.HTML(http.StatusOK, "editar.tmpl", data)
}

func (h *WebHandler) SubmitEdit(c *gin.Context) {
	id := c.Param("id")
	var form domain.NewProduct
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warnf("Failed to bind edit form for product %s: %v", id, err)
	}
	back := c.PostForm("back")

	updated, err := h.useCase.Edit(c.Request.Context(), id, domain.PatchFromForm(form.SKU, form.Categoria, form.Tamanho, form.Cor))
	if err == nil {
		h.log.Infof("Product %s updated from web form", updated.ID)
		c.Redirect(http.StatusSeeOther, backURL(back, "atualizado"))
		return
	}

	data := editarPage{
		page:       newPage("consulta"),
		Form:       formView{Values: form},
		Back:       back,
		CancelURL:  backURL(back, ""),
		Categorias: categoriaOptions(),
		Tamanhos:   tamanhoOptions(),
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		data.Form.Errors = ve.Fields
	} else {
		h.log.Errorf("Erro ao atualizar produto: %v", err)
		data.Error = "Erro ao atualizar produto: " + err.Error()
	}
	if current, getErr := h.useCase.Get(c.Request.Context(), id); getErr == nil {
		data.Product = current
	}
	c.HTML(mapErrorToStatus(err), "editar.tmpl", data)
}

func (h *WebHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	back := c.PostForm("back")

	if err := h.useCase.Remove(c.Request.Context(), id); err != nil {
		h.log.Errorf("Erro ao excluir produto: %v", err)
		q, _ := url.ParseQuery(back)
		data := newConsultaPage(filterFromValues(q), usecase.ParseViewMode(q.Get("view")))
		data.Error = "Erro ao excluir produto: " + err.Error()
		c.HTML(mapErrorToStatus(err), "consulta.tmpl", data)
		return
	}

	c.Redirect(http.StatusSeeOther, backURL(back, "excluido"))
}

func browseQuery(filter domain.ProductFilter, mode usecase.ViewMode) url.Values {
	q := url.Values{}
	for _, field := range domain.FilterFields {
		if v := filter.Get(field); v != "" {
			q.Set(string(field), v)
		}
	}
	q.Set("view", string(mode))
	return q
}

func consultaURL(filter domain.ProductFilter, mode usecase.ViewMode) string {
	return "/consulta?" + browseQuery(filter, mode).Encode()
}

// backURL returns to the list the user came from, keeping only the filter
// and view parameters of back. A non-empty msg selects a notice.
func backURL(back, msg string) string {
	q, _ := url.ParseQuery(back)
	out := browseQuery(filterFromValues(q), usecase.ParseViewMode(q.Get("view")))
	if msg != "" {
		out.Set("msg", msg)
	}
	return "/consulta?" + out.Encode()
}
