package routers

import (
	"healthcard-service/internal/app/delivery/http/controllers"
	"healthcard-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachPaymentRouter(router chi.Router, middlewares *middlewares.Middlewares, paymentController *controllers.PaymentController) {
	router.Post("/submit", paymentController.Submit)
	router.Get("/submit/progress", paymentController.SubmitProgress)
	router.Post("/checkout", paymentController.InitiateCheckout)
	router.Get("/checkout/active", paymentController.ActiveCheckoutSession)
	router.Get("/{paymentId}/status", paymentController.GetStatus)
	router.Post("/{paymentId}/cancel", paymentController.Cancel)
	router.Post("/return", paymentController.PaymentReturn)
	router.Get("/return", paymentController.PaymentReturn)
	router.Post("/uploads/retry", paymentController.RetryUploads)
	router.Get("/uploads/failed", paymentController.FailedUploads)
}
