package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"caseport"
	"caseport/services"
)

// signUp registers a new user and returns the first session token.
func (a *Adapter) signUp(c fiber.Ctx) error {
	var input struct {
		Email       string  `json:"email"`
		Password    string  `json:"password"`
		DisplayName *string `json:"displayName"`
		Role        string  `json:"role"`
	}
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := a.cp.Auth.SignUp(c.Context(), services.SignUpInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
		Role:        caseport.Role(input.Role),
	})
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(result)
}

// signIn exchanges credentials for a session token.
func (a *Adapter) signIn(c fiber.Ctx) error {
	var creds caseport.Credentials
	if err := c.Bind().Body(&creds); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := a.cp.Auth.SignIn(c.Context(), creds)
	if err != nil {
		if a.collector != nil {
			a.collector.RecordSignIn(false)
		}
		return handleError(c, err)
	}

	if a.collector != nil {
		a.collector.RecordSignIn(true)
	}
	return c.Status(http.StatusOK).JSON(result)
}

// session returns the caller's resolved session.
func (a *Adapter) session(c fiber.Ctx) error {
	session := sessionFromCtx(c)
	if session == nil {
		return handleError(c, caseport.ErrSessionInvalid)
	}
	return c.Status(http.StatusOK).JSON(session)
}

// renew re-signs the caller's token. A plain continuation keeps the
// original expiry; only a fresh sign-in extends it.
func (a *Adapter) renew(c fiber.Ctx) error {
	token, err := a.cp.Sessions.Renew(extractToken(c), nil)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"token": token,
	})
}

// userRole answers the role query endpoint: absent records resolve to
// end_user, provider failures surface as a server error.
func (a *Adapter) userRole(c fiber.Ctx) error {
	role, err := a.cp.Roles.Resolve(c.Context(), c.Params("id"))
	if err != nil {
		if a.collector != nil {
			a.collector.RecordRoleLookup("error")
		}
		return handleError(c, err)
	}

	if a.collector != nil {
		a.collector.RecordRoleLookup("ok")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"role": role,
	})
}

// upload accepts a multipart file, validates it locally, and hands it to
// the upload service. The owner is always the authenticated subject.
func (a *Adapter) upload(c fiber.Ctx) error {
	session := sessionFromCtx(c)
	if session == nil {
		return handleError(c, caseport.ErrSessionInvalid)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if a.collector != nil {
			a.collector.RecordUpload("rejected")
		}
		return handleError(c, caseport.ErrUploadMissingFile)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return handleError(c, caseport.ErrUploadMissingFile)
	}
	defer file.Close()

	record, err := a.cp.Uploads.Upload(c.Context(), services.UploadInput{
		OwnerUserID: session.Subject.ID,
		CompanyID:   c.FormValue("companyId"),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Content:     file,
	})
	if err != nil {
		if a.collector != nil {
			a.collector.RecordUpload("rejected")
		}
		return handleError(c, err)
	}

	if a.collector != nil {
		a.collector.RecordUpload("stored")
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    record,
	})
}

// menu returns the caller's role-filtered navigation menu. Targets the
// role cannot reach are omitted entirely.
func (a *Adapter) menu(c fiber.Ctx) error {
	session := sessionFromCtx(c)
	items, err := a.cp.Gate.MenuFor(c.Context(), session)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"items": items,
	})
}

// stats returns the dashboard counters. The figures are fixed values
// served identically to every authenticated caller.
func (a *Adapter) stats(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"totalCases":     47,
		"activeCases":    12,
		"completedCases": 32,
		"pendingReview":  3,
	})
}

// listCompanies is a superadmin-only operation; requireRole has already
// re-run the role check server-side before we get here.
func (a *Adapter) listCompanies(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"companies": []string{},
	})
}

// listReports requires company_user or higher.
func (a *Adapter) listReports(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"reports": []string{},
	})
}

// handleError maps service errors to HTTP responses. Provider detail is
// never leaked: 5xx responses carry a generic message and the error
// page redirect.
func handleError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)

	body := fiber.Map{}
	switch {
	case status == http.StatusUnauthorized:
		body["error"] = err.Error()
		body["redirect"] = "/login"
	case status >= http.StatusInternalServerError:
		body["error"] = "internal error"
		body["redirect"] = "/error"
	default:
		body["error"] = err.Error()
	}

	return c.Status(status).JSON(body)
}

// mapErrorToStatus maps caseport error types to HTTP status codes.
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, caseport.ErrInvalidCredentials),
		errors.Is(err, caseport.ErrSessionInvalid),
		errors.Is(err, caseport.ErrMissingAuthHeader):
		return http.StatusUnauthorized

	case errors.Is(err, caseport.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, caseport.ErrUserExists):
		return http.StatusConflict

	case errors.Is(err, caseport.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, caseport.ErrUploadRejected),
		errors.Is(err, caseport.ErrEmailRequired),
		errors.Is(err, caseport.ErrPasswordRequired),
		errors.Is(err, caseport.ErrPasswordTooShort):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
