package service

import (
	"bytes"
	"errors"
	"testing"

	"backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type imageTestEnv struct {
	svc    *imageService
	images *fakeImageRepo
	users  *fakeUserRepo
	posts  *fakePostRepo
}

func newImageTestEnv(t *testing.T) *imageTestEnv {
	t.Helper()

	images := newFakeImageRepo()
	users := newFakeUserRepo()
	posts := newFakePostRepo()

	svc := NewImageService(images, users, posts, zap.NewNop()).(*imageService)
	return &imageTestEnv{svc: svc, images: images, users: users, posts: posts}
}

func (e *imageTestEnv) addUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, e.users.CreateUser(user))
	return user
}

func (e *imageTestEnv) addPost(t *testing.T, userID int64) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, Title: "a post"}
	require.NoError(t, e.posts.Create(post))
	return post
}

func repetitivePayload(size int) []byte {
	pattern := []byte("the quick brown fox jumps over the lazy dog ")
	return bytes.Repeat(pattern, size/len(pattern)+1)[:size]
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	env := newImageTestEnv(t)

	cases := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"small", []byte("hello world")},
		{"repetitive 10KB", repetitivePayload(10 * 1024)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			compressed, err := compressBytes(tc.data)
			require.NoError(t, err)

			restored := env.svc.decompressBytes(compressed)
			if len(tc.data) == 0 {
				assert.Empty(t, restored)
			} else {
				assert.Equal(t, tc.data, restored)
			}
		})
	}
}

func TestCompressShrinksRepetitiveInput(t *testing.T) {
	data := repetitivePayload(10 * 1024)

	compressed, err := compressBytes(data)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(data))
}

func TestUploadToUserAndFetch(t *testing.T) {
	env := newImageTestEnv(t)
	user := env.addUser(t, "alice")

	payload := []byte("hello world")
	stored, err := env.svc.UploadToUser(user.ID, payload, "avatar.png")
	require.NoError(t, err)

	// The returned record still carries the compressed payload.
	assert.NotEqual(t, payload, stored.ImageBytes)
	assert.Equal(t, "avatar.png", stored.Name)

	fetched, err := env.svc.UserImage(user.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, payload, fetched.ImageBytes)
}

func TestUploadToUserReplacesExisting(t *testing.T) {
	env := newImageTestEnv(t)
	user := env.addUser(t, "alice")

	_, err := env.svc.UploadToUser(user.ID, repetitivePayload(2048), "first.png")
	require.NoError(t, err)
	_, err = env.svc.UploadToUser(user.ID, []byte("second"), "second.png")
	require.NoError(t, err)

	assert.Len(t, env.images.images, 1)

	fetched, err := env.svc.UserImage(user.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, []byte("second"), fetched.ImageBytes)
	assert.Equal(t, "second.png", fetched.Name)
}

func TestUploadToPostReplacesExisting(t *testing.T) {
	env := newImageTestEnv(t)
	user := env.addUser(t, "alice")
	post := env.addPost(t, user.ID)

	_, err := env.svc.UploadToPost(user.ID, post.ID, []byte("first"), "first.png")
	require.NoError(t, err)
	_, err = env.svc.UploadToPost(user.ID, post.ID, []byte("second"), "second.png")
	require.NoError(t, err)

	assert.Len(t, env.images.images, 1)

	fetched, err := env.svc.PostImage(post.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), fetched.ImageBytes)
}

func TestUploadToUnknownUser(t *testing.T) {
	env := newImageTestEnv(t)

	_, err := env.svc.UploadToUser(42, []byte("data"), "x.png")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestUploadToPostOwnership(t *testing.T) {
	env := newImageTestEnv(t)
	alice := env.addUser(t, "alice")
	bob := env.addUser(t, "bob")
	post := env.addPost(t, alice.ID)

	_, err := env.svc.UploadToPost(bob.ID, post.ID, []byte("data"), "x.png")
	assert.True(t, errors.Is(err, ErrOwnershipMismatch))

	// Absent post signals the same mismatch.
	_, err = env.svc.UploadToPost(alice.ID, 999, []byte("data"), "x.png")
	assert.True(t, errors.Is(err, ErrOwnershipMismatch))
}

func TestUserImageAbsentIsNotAnError(t *testing.T) {
	env := newImageTestEnv(t)
	user := env.addUser(t, "alice")

	image, err := env.svc.UserImage(user.ID)
	assert.NoError(t, err)
	assert.Nil(t, image)
}

func TestPostImageAbsentIsAnError(t *testing.T) {
	env := newImageTestEnv(t)

	_, err := env.svc.PostImage(123)
	assert.True(t, errors.Is(err, ErrImageNotFound))
}

func TestFetchDoesNotMutateStoredBytes(t *testing.T) {
	env := newImageTestEnv(t)
	user := env.addUser(t, "alice")

	payload := repetitivePayload(4096)
	stored, err := env.svc.UploadToUser(user.ID, payload, "avatar.png")
	require.NoError(t, err)

	_, err = env.svc.UserImage(user.ID)
	require.NoError(t, err)

	// The row at rest still holds the compressed form after a read.
	row := env.images.images[stored.ID]
	require.NotNil(t, row)
	assert.Equal(t, stored.ImageBytes, row.ImageBytes)
	assert.NotEqual(t, payload, row.ImageBytes)
}

func TestUploadEmptyImage(t *testing.T) {
	env := newImageTestEnv(t)
	user := env.addUser(t, "alice")

	_, err := env.svc.UploadToUser(user.ID, []byte{}, "empty.png")
	require.NoError(t, err)

	fetched, err := env.svc.UserImage(user.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Empty(t, fetched.ImageBytes)
}

func TestDecompressCorruptInputIsBestEffort(t *testing.T) {
	env := newImageTestEnv(t)
	payload := repetitivePayload(10 * 1024)

	compressed, err := compressBytes(payload)
	require.NoError(t, err)

	// Truncated stream: partial output, no panic, no error surfaced.
	truncated := compressed[:len(compressed)/2]
	partial := env.svc.decompressBytes(truncated)
	assert.LessOrEqual(t, len(partial), len(payload))

	// Corrupt header: nothing decodable, empty output.
	corrupt := append([]byte(nil), compressed...)
	corrupt[0] ^= 0xFF
	assert.Empty(t, env.svc.decompressBytes(corrupt))
}
