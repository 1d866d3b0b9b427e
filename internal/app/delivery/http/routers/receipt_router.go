package routers

import (
	"healthcard-service/internal/app/delivery/http/controllers"
	"healthcard-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachReceiptRouter(router chi.Router, middlewares *middlewares.Middlewares, receiptController *controllers.ReceiptController) {
	router.Post("/", receiptController.Upload)
	router.Get("/{storageId}/url", receiptController.ReviewURL)
}
