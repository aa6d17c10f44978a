package server

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/SigireddyBalasai/hey-bear-sub000/contentstore"
	"github.com/SigireddyBalasai/hey-bear-sub000/core"
	"github.com/SigireddyBalasai/hey-bear-sub000/storage"
	"github.com/google/uuid"
)

type destinationRequest struct {
	Name       string `json:"name"`
	StoreIndex string `json:"storeIndex"`
}

type destinationResponse struct {
	Id         string    `json:"id"`
	Name       string    `json:"name"`
	StoreIndex string    `json:"storeIndex"`
	InsertedAt time.Time `json:"insertedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toDestinationResponse(dest *core.Destination) destinationResponse {
	return destinationResponse{
		Id:         dest.Id,
		Name:       dest.Name,
		StoreIndex: dest.StoreIndex,
		InsertedAt: dest.InsertedAt,
		UpdatedAt:  dest.UpdatedAt,
	}
}

func (s *Server) handleAddDestination(w http.ResponseWriter, r *http.Request) {
	var body destinationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", "request body must be valid JSON")
		return
	}

	dest := &core.Destination{
		OwnerId:    ownerFromContext(r.Context()),
		Name:       body.Name,
		StoreIndex: body.StoreIndex,
	}
	if err := core.ValidateDestination(dest); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	saved, err := s.destinations.AddDestination(r.Context(), dest)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDestinationResponse(saved))
}

func (s *Server) handleListDestinations(w http.ResponseWriter, r *http.Request) {
	dests, err := s.destinations.GetDestinationsByOwner(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		s.writeInternalError(w, err)
		return
	}

	out := make([]destinationResponse, 0, len(dests))
	for _, dest := range dests {
		out = append(out, toDestinationResponse(dest))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetDestination(w http.ResponseWriter, r *http.Request) {
	dest, ok := s.resolveDestination(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toDestinationResponse(dest))
}

func (s *Server) handleDeleteDestination(w http.ResponseWriter, r *http.Request) {
	dest, ok := s.resolveDestination(w, r)
	if !ok {
		return
	}

	if err := s.destinations.DeleteDestination(r.Context(), dest.Id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeDestinationNotFound(w, dest.Id)
			return
		}
		s.writeInternalError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type fileResponse struct {
	Id       string                    `json:"id"`
	Name     string                    `json:"name"`
	Metadata contentstore.FileMetadata `json:"metadata,omitempty"`
	Size     int64                     `json:"size,omitempty"`
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	dest, ok := s.resolveDestination(w, r)
	if !ok {
		return
	}

	files, err := s.store.Destination(dest.StoreIndex).ListFiles(r.Context())
	if err != nil {
		s.writeStoreError(w, dest.StoreIndex, err)
		return
	}

	out := make([]fileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, fileResponse{Id: f.Id, Name: f.Name, Metadata: f.Metadata, Size: f.Size})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleUploadFile accepts a multipart upload and forwards it to the
// destination's content store. The part is spooled to a temp file
// because the store client uploads from a path.
func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	dest, ok := s.resolveDestination(w, r)
	if !ok {
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", "multipart field \"file\" is required")
		return
	}
	defer part.Close()

	path := filepath.Join(os.TempDir(), "upload-"+uuid.NewString()+filepath.Ext(header.Filename))
	tmp, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("failed to remove temp upload", "path", path, "err", err)
		}
	}()

	if _, err := io.Copy(tmp, part); err != nil {
		tmp.Close()
		s.writeInternalError(w, err)
		return
	}
	if err := tmp.Close(); err != nil {
		s.writeInternalError(w, err)
		return
	}

	metadata := contentstore.FileMetadata{
		"source":    header.Filename,
		"type":      "file",
		"dateAdded": time.Now().UTC().Format(time.RFC3339),
	}
	file, err := s.store.Destination(dest.StoreIndex).UploadFile(r.Context(), path, metadata)
	if err != nil {
		s.writeStoreError(w, dest.StoreIndex, err)
		return
	}

	writeJSON(w, http.StatusCreated, fileResponse{Id: file.Id, Name: header.Filename, Metadata: file.Metadata, Size: file.Size})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	dest, ok := s.resolveDestination(w, r)
	if !ok {
		return
	}

	fileID := r.PathValue("fileId")
	if fileID == "" {
		writeError(w, http.StatusBadRequest, "invalid request", "file id is required")
		return
	}

	if err := s.store.Destination(dest.StoreIndex).DeleteFile(r.Context(), fileID); err != nil {
		s.writeStoreError(w, dest.StoreIndex, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// resolveDestination loads the {id} path destination and enforces owner
// scoping. Foreign destinations are indistinguishable from absent ones.
func (s *Server) resolveDestination(w http.ResponseWriter, r *http.Request) (*core.Destination, bool) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid request", "destination id is required")
		return nil, false
	}

	dest, err := s.destinations.GetDestination(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeDestinationNotFound(w, id)
			return nil, false
		}
		s.writeInternalError(w, err)
		return nil, false
	}

	if owner := ownerFromContext(r.Context()); owner != "" && dest.OwnerId != owner {
		s.writeDestinationNotFound(w, id)
		return nil, false
	}

	return dest, true
}

func (s *Server) writeDestinationNotFound(w http.ResponseWriter, id string) {
	writeError(w, http.StatusNotFound, "destination not found", "destination "+id+" does not exist")
}

func (s *Server) writeStoreError(w http.ResponseWriter, index string, err error) {
	switch {
	case errors.Is(err, contentstore.ErrIndexNotFound):
		writeError(w, http.StatusBadRequest, "destination content store misconfigured",
			"content store index "+index+" does not exist")
	case contentstore.IsConnectionError(err):
		writeError(w, http.StatusBadGateway, "content store unavailable", "content store request failed")
		s.logger.Error("content store connection error", "index", index, "err", err)
	default:
		s.writeInternalError(w, err)
	}
}
