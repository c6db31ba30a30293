package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-furniture/internal/domain"
	"github.com/weiawesome/wes-furniture/internal/imageproc"
	"github.com/weiawesome/wes-furniture/internal/service"
)

type fakeCatalog struct {
	service.CatalogService
	nav      []domain.NavRoom
	items    map[string]*domain.ItemPage
	settings *domain.SiteSettings
	err      error
}

func (f *fakeCatalog) NavRooms(context.Context) []domain.NavRoom { return f.nav }

func (f *fakeCatalog) Item(_ context.Context, slug string) (*domain.ItemPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	page, ok := f.items[slug]
	if !ok {
		return nil, service.ErrItemNotFound
	}
	return page, nil
}

func (f *fakeCatalog) Catalogue(_ context.Context, filters domain.CatalogueFilters) (*domain.CataloguePage, error) {
	return &domain.CataloguePage{Filters: filters}, nil
}

func (f *fakeCatalog) Settings(context.Context) (*domain.SiteSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.settings, nil
}

func (f *fakeCatalog) Wishlist(_ context.Context, items, sets []string) (*domain.WishlistEntries, error) {
	out := &domain.WishlistEntries{Items: []domain.ItemResult{}, Sets: []domain.SetResult{}}
	for _, slug := range items {
		out.Items = append(out.Items, domain.ItemResult{Slug: slug})
	}
	for _, slug := range sets {
		out.Sets = append(out.Sets, domain.SetResult{Slug: slug})
	}
	return out, nil
}

type fakeSearch struct {
	resp  *domain.SearchResponse
	err   error
	query string
}

func (f *fakeSearch) Search(_ context.Context, query string) (*domain.SearchResponse, error) {
	f.query = query
	return f.resp, f.err
}

type fakeAdmin struct {
	service.AdminService
	created   *domain.ItemInput
	createErr error
	uploaded  []byte
	folder    string
	heroIndex int
}

func (f *fakeAdmin) CreateItem(_ context.Context, in *domain.ItemInput) (*domain.Item, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = in
	return &domain.Item{ID: "item-1", Name: in.Name, Code: "LR-001"}, nil
}

func (f *fakeAdmin) DeleteItem(_ context.Context, id string) error {
	if id != "item-1" {
		return service.ErrItemNotFound
	}
	return nil
}

func (f *fakeAdmin) NextCode(_ context.Context, kind, room, style string) (string, error) {
	return fmt.Sprintf("%s-%s-%s", kind, room, style), nil
}

func (f *fakeAdmin) SetHeroImage(_ context.Context, index int, url string) (*domain.SiteSettings, error) {
	f.heroIndex = index
	st := domain.DefaultSiteSettings()
	st.Home.Hero.Images = []string{url}
	return &st, nil
}

func (f *fakeAdmin) UploadImage(_ context.Context, folder string, r io.Reader) (*domain.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.folder = folder
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		return nil, imageproc.ErrInvalidImage
	}
	f.uploaded = data
	return &domain.Image{URL: "/uploads/" + folder + "/a.png", Key: folder + "/a.png"}, nil
}

func newRouter(catalog *fakeCatalog, search *fakeSearch, admin *fakeAdmin) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(catalog, search).RegisterRoutes(r)
	NewAdminHandler(admin, 1<<10).RegisterRoutes(r, "dashboard")
	return r
}

func do(r http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestSearch_BareBody(t *testing.T) {
	search := &fakeSearch{resp: &domain.SearchResponse{
		Items: []domain.ItemResult{{Code: "LR-001", Name: "Classic Leather Sofa"}},
		Sets:  []domain.SetResult{},
	}}
	r := newRouter(&fakeCatalog{}, search, &fakeAdmin{})

	w := do(r, http.MethodGet, "/api/search?q=leather+sofa", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "leather sofa", search.query)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body, 2)
	assert.JSONEq(t, `[]`, string(body["sets"]))

	var items []domain.ItemResult
	require.NoError(t, json.Unmarshal(body["items"], &items))
	require.Len(t, items, 1)
	assert.Equal(t, "LR-001", items[0].Code)
}

func TestSearch_Failure(t *testing.T) {
	r := newRouter(&fakeCatalog{}, &fakeSearch{err: errors.New("db down")}, &fakeAdmin{})

	w := do(r, http.MethodGet, "/api/search?q=sofa", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"search failed"}`, w.Body.String())
}

func TestPages_CarryNavRooms(t *testing.T) {
	catalog := &fakeCatalog{
		nav: []domain.NavRoom{{Name: "Bedroom", Slug: "bedroom"}},
		items: map[string]*domain.ItemPage{
			"royal-bed-br-001": {Item: domain.Item{Name: "Royal Bed", Code: "BR-001"}},
		},
	}
	r := newRouter(catalog, &fakeSearch{}, &fakeAdmin{})

	w := do(r, http.MethodGet, "/item/royal-bed-br-001", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	assert.True(t, env.Success)
	var pg struct {
		Title    string           `json:"title"`
		NavRooms []domain.NavRoom `json:"navRooms"`
		Data     domain.ItemPage  `json:"data"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &pg))
	assert.Equal(t, "Royal Bed", pg.Title)
	assert.Equal(t, catalog.nav, pg.NavRooms)
	assert.Equal(t, "BR-001", pg.Data.Item.Code)

	w = do(r, http.MethodGet, "/item/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w).Error.Code)
}

func TestPages_StoreFailureIsGeneric(t *testing.T) {
	r := newRouter(&fakeCatalog{err: errors.New("connection refused")}, &fakeSearch{}, &fakeAdmin{})

	w := do(r, http.MethodGet, "/about", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w)
	assert.Equal(t, "failed to load about page", env.Error.Message)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestCatalogue_EchoesFilters(t *testing.T) {
	r := newRouter(&fakeCatalog{}, &fakeSearch{}, &fakeAdmin{})

	w := do(r, http.MethodGet, "/catalogue?style=Royal&room=Bedroom", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var pg struct {
		NavRooms []domain.NavRoom     `json:"navRooms"`
		Data     domain.CataloguePage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &pg))
	assert.NotNil(t, pg.NavRooms)
	assert.Equal(t, domain.CatalogueFilters{Style: "Royal", Room: "Bedroom"}, pg.Data.Filters)
}

func TestWishlist(t *testing.T) {
	r := newRouter(&fakeCatalog{}, &fakeSearch{}, &fakeAdmin{})

	w := do(r, http.MethodPost, "/api/wishlist", strings.NewReader(`{"items":["a"],"sets":["b","c"]}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.WishlistEntries
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
	assert.Len(t, got.Items, 1)
	assert.Len(t, got.Sets, 2)

	w = do(r, http.MethodPost, "/api/wishlist", strings.NewReader(`{`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_CreateItem(t *testing.T) {
	admin := &fakeAdmin{}
	r := newRouter(&fakeCatalog{}, &fakeSearch{}, admin)

	w := do(r, http.MethodPost, "/dashboard/api/items",
		strings.NewReader(`{"name":"Sofa","room":"Living Room","style":"Royal","type":"Sofa"}`), "application/json")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Living Room", admin.created.Room)

	w = do(r, http.MethodPost, "/dashboard/api/items", strings.NewReader(`{"name":"Sofa"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	admin.createErr = service.ErrDuplicateCode
	w = do(r, http.MethodPost, "/dashboard/api/items",
		strings.NewReader(`{"name":"Sofa","room":"Living Room","style":"Royal","type":"Sofa"}`), "application/json")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdmin_DeleteAndNextCode(t *testing.T) {
	r := newRouter(&fakeCatalog{}, &fakeSearch{}, &fakeAdmin{})

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/dashboard/api/items/item-1", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/dashboard/api/items/item-2", nil, "").Code)

	w := do(r, http.MethodGet, "/dashboard/api/next-code?kind=set&room=Office&style=Modern", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":"set-Office-Modern"}`, string(decode(t, w).Data))

	w = do(r, http.MethodGet, "/dashboard/api/next-code?kind=lamp&room=Office&style=Modern", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_HeroImageAcceptsSlotZero(t *testing.T) {
	admin := &fakeAdmin{heroIndex: -1}
	r := newRouter(&fakeCatalog{}, &fakeSearch{}, admin)

	w := do(r, http.MethodPut, "/dashboard/api/settings/hero-image", strings.NewReader(`{"index":0,"url":"/uploads/hero.jpg"}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, admin.heroIndex)

	w = do(r, http.MethodPut, "/dashboard/api/settings/hero-image", strings.NewReader(`{"url":"/uploads/hero.jpg"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func multipartBody(t *testing.T, folder string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if folder != "" {
		require.NoError(t, mw.WriteField("folder", folder))
	}
	fw, err := mw.CreateFormFile("image", "upload.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAdmin_UploadImage(t *testing.T) {
	admin := &fakeAdmin{}
	r := newRouter(&fakeCatalog{}, &fakeSearch{}, admin)

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	body, ct := multipartBody(t, "rooms", pngBuf.Bytes())
	w := do(r, http.MethodPost, "/dashboard/api/upload-image", body, ct)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "rooms", admin.folder)
	assert.Equal(t, pngBuf.Bytes(), admin.uploaded)

	body, ct = multipartBody(t, "", []byte("not an image"))
	w = do(r, http.MethodPost, "/dashboard/api/upload-image", body, ct)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Equal(t, defaultFolder, admin.folder)

	body, ct = multipartBody(t, "", bytes.Repeat([]byte{0x89}, 2<<10))
	w = do(r, http.MethodPost, "/dashboard/api/upload-image", body, ct)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = do(r, http.MethodPost, "/dashboard/api/upload-image", strings.NewReader(""), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
