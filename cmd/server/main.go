package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "lumix-backoffice/internal/adapters/web"
	"lumix-backoffice/internal/app"
	"lumix-backoffice/internal/core"
	"lumix-backoffice/internal/db"
	"lumix-backoffice/internal/mail"
	"lumix-backoffice/internal/pdf"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	userService := core.NewUserService(pool)
	invoiceService := core.NewInvoiceService(pool)
	payrollService := core.NewPayrollService(pool)
	clientService := core.NewClientService(pool)
	employeeService := core.NewEmployeeService(pool)
	companyService := core.NewCompanyService(pool)
	timesheetService := core.NewTimesheetService(pool)
	reportingService := core.NewReportingService(pool)

	if os.Getenv("RESEND_API_KEY") == "" {
		log.Println("Warning: RESEND_API_KEY is not set, invoice dispatch will fail")
	}

	svc := app.NewAppService(
		userService,
		invoiceService,
		payrollService,
		clientService,
		employeeService,
		companyService,
		timesheetService,
		reportingService,
		pdf.NewRenderer(),
		mail.Default(),
	)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
