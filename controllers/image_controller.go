package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"gogo-api/services"
	"gogo-api/utils"
)

const maxImageSize = 10 << 20 // 10 MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ImageController handles multipart image uploads into object storage.
type ImageController struct {
	imageService *services.ImageService
}

func NewImageController(imageService *services.ImageService) *ImageController {
	return &ImageController{imageService: imageService}
}

// uploadFolder picks the storage prefix from the form's target ids.
func uploadFolder(c *gin.Context) string {
	if id := c.PostForm("location_id"); id != "" {
		return "locations/" + id
	}
	if id := c.PostForm("restaurant_id"); id != "" {
		return "restaurants/" + id
	}
	if id := c.PostForm("user_id"); id != "" {
		return "users/" + id
	}
	return "misc"
}

// Upload stores a single image and returns its public URL.
func (ic *ImageController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequest(c, "Image file is required")
		return
	}
	if fileHeader.Size > maxImageSize {
		utils.BadRequest(c, "Image exceeds the 10MB limit")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		utils.BadRequest(c, "Unsupported image type")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.ServerError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	url, err := ic.imageService.Upload(c.Request.Context(), file, fileHeader.Size, contentType, uploadFolder(c), fileHeader.Filename)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, "Image uploaded", gin.H{"url": url})
}

// UploadMultiple stores up to 10 images in one request.
func (ic *ImageController) UploadMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequest(c, "Multipart form is required")
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		utils.BadRequest(c, "At least one image is required")
		return
	}
	if len(files) > 10 {
		utils.BadRequest(c, "At most 10 images per request")
		return
	}

	folder := uploadFolder(c)
	urls := make([]string, 0, len(files))
	for _, fileHeader := range files {
		if fileHeader.Size > maxImageSize {
			utils.BadRequest(c, "Image exceeds the 10MB limit: "+fileHeader.Filename)
			return
		}
		contentType := fileHeader.Header.Get("Content-Type")
		if !allowedImageTypes[contentType] {
			utils.BadRequest(c, "Unsupported image type: "+fileHeader.Filename)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			utils.ServerError(c, "Failed to read uploaded file")
			return
		}

		url, err := ic.imageService.Upload(c.Request.Context(), file, fileHeader.Size, contentType, folder, fileHeader.Filename)
		file.Close()
		if err != nil {
			utils.Error(c, err)
			return
		}
		urls = append(urls, url)
	}

	utils.Created(c, "Images uploaded", gin.H{"urls": urls, "count": len(urls)})
}

// Delete removes one stored image. The id is the object file name; the
// folder query narrows it to the prefix it was uploaded under.
func (ic *ImageController) Delete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" || strings.Contains(id, "..") {
		utils.BadRequest(c, "Image ID is required")
		return
	}

	objectName := id
	if folder := strings.Trim(c.Query("folder"), "/"); folder != "" {
		if strings.Contains(folder, "..") {
			utils.BadRequest(c, "Invalid folder")
			return
		}
		objectName = folder + "/" + id
	}

	ic.imageService.DeleteObject(c.Request.Context(), objectName)
	utils.OK(c, "Image deleted", nil)
}
