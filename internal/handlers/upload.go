package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mindlink-backend/internal/config"
	"github.com/AnshRaj112/mindlink-backend/internal/dashboard"
	"github.com/AnshRaj112/mindlink-backend/internal/services"
)

var cloudinaryService *services.CloudinaryService

func InitCloudinaryService(cfg *config.Config) error {
	service, err := services.NewCloudinaryService(
		cfg.CloudinaryName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return err
	}
	cloudinaryService = service
	return nil
}

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// UploadAvatar uploads a contact avatar to Cloudinary. When a contact_id
// form field is present the URL is also written onto that trusted contact.
func UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	if cloudinaryService == nil {
		http.Error(w, "Cloudinary service not initialized", http.StatusInternalServerError)
		return
	}

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file provided: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := cloudinaryService.UploadImageFromHeader(r.Context(), fileHeader, "mindlink/avatars")
	if err != nil {
		http.Error(w, "Failed to upload file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if raw := r.FormValue("contact_id"); raw != "" {
		contactID, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "Invalid contact ID", http.StatusBadRequest)
			return
		}

		d := Dashboards.For(userID)
		if err := dashboard.Ensure(r.Context(), d.Trusted); err != nil {
			http.Error(w, "Failed to load trusted contacts", http.StatusInternalServerError)
			return
		}
		if err := d.SetTrustedAvatar(r.Context(), contactID, url); err != nil {
			http.Error(w, "Failed to update contact avatar", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Success: true,
		Message: "File uploaded successfully",
		URL:     url,
	})
}
