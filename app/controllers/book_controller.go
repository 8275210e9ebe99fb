package controllers

import (
	"net/http"

	"github.com/bookhive/bookhive/app/services"
	"github.com/bookhive/bookhive/pkg/bind"
	"github.com/bookhive/bookhive/pkg/response"
)

// BookController publishes and lists books per shop.
type BookController struct {
	books *services.BookService
}

func NewBookController(books *services.BookService) *BookController {
	return &BookController{books: books}
}

type createBookRequest struct {
	Abstraction string   `json:"abstraction" validate:"required"`
	Genre       []string `json:"genre" validate:"required"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	ImageData   string   `json:"imageData" validate:"nullable"`
	FileData    string   `json:"fileData" validate:"nullable"`
}

// Create publishes a book in the shop and fans out notifications to its
// followers. The response includes the fan-out report so a partially failed
// fan-out is visible to the caller.
func (c *BookController) Create(w http.ResponseWriter, r *http.Request) {
	shopID, ok := uintParam(r, "shopId")
	if !ok {
		badParam(w, "shop id")
		return
	}

	var req createBookRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	book, report, err := c.books.Create(r.Context(), shopID, services.CreateBookInput{
		Abstraction: req.Abstraction,
		Genre:       req.Genre,
		Price:       req.Price,
		ImageData:   req.ImageData,
		FileData:    req.FileData,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]interface{}{
		"book":   book,
		"fanOut": report,
	})
}

// Index lists the shop's books.
func (c *BookController) Index(w http.ResponseWriter, r *http.Request) {
	shopID, ok := uintParam(r, "shopId")
	if !ok {
		badParam(w, "shop id")
		return
	}

	books, err := c.books.BooksByShop(r.Context(), shopID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	response.Resource(w, "books", books)
}
