package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "SMA Bulletin API",
    "description": "Announcements, attachments and school calendar",
    "version": "1.0.0"
  },
  "basePath": "/api/v1",
  "schemes": [
    "http",
    "https"
  ],
  "securityDefinitions": {
    "BearerAuth": {
      "type": "apiKey",
      "name": "Authorization",
      "in": "header"
    }
  },
  "tags": [
    {
      "name": "Announcements",
      "description": "Announcement lifecycle and listings"
    },
    {
      "name": "Attachments",
      "description": "Announcement files and signed downloads"
    },
    {
      "name": "Calendar",
      "description": "Calendar events, views, exports and feed"
    }
  ],
  "paths": {
    "/announcements/feed": {
      "get": {
        "tags": [
          "Announcements"
        ],
        "summary": "Public announcement feed",
        "parameters": [
          {
            "name": "grade_level",
            "in": "query",
            "required": false,
            "type": "integer"
          },
          {
            "name": "page",
            "in": "query",
            "required": false,
            "type": "integer"
          },
          {
            "name": "page_size",
            "in": "query",
            "required": false,
            "type": "integer"
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements": {
      "get": {
        "tags": [
          "Announcements"
        ],
        "summary": "List announcements",
        "parameters": [
          {
            "name": "status",
            "in": "query",
            "required": false,
            "type": "string"
          },
          {
            "name": "grade_level",
            "in": "query",
            "required": false,
            "type": "integer"
          },
          {
            "name": "author_id",
            "in": "query",
            "required": false,
            "type": "string"
          },
          {
            "name": "page",
            "in": "query",
            "required": false,
            "type": "integer"
          },
          {
            "name": "page_size",
            "in": "query",
            "required": false,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      },
      "post": {
        "tags": [
          "Announcements"
        ],
        "summary": "Create a draft announcement",
        "parameters": [
          {
            "name": "payload",
            "in": "body",
            "required": true,
            "schema": {
              "$ref": "#/definitions/CreateAnnouncementRequest"
            }
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "201": {
            "description": "Created",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements/archive": {
      "get": {
        "tags": [
          "Announcements"
        ],
        "summary": "List archived or deleted announcements",
        "parameters": [
          {
            "name": "page",
            "in": "query",
            "required": false,
            "type": "integer"
          },
          {
            "name": "page_size",
            "in": "query",
            "required": false,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements/{id}": {
      "get": {
        "tags": [
          "Announcements"
        ],
        "summary": "Get an announcement",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      },
      "put": {
        "tags": [
          "Announcements"
        ],
        "summary": "Update announcement content",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          },
          {
            "name": "payload",
            "in": "body",
            "required": true,
            "schema": {
              "$ref": "#/definitions/UpdateAnnouncementRequest"
            }
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      },
      "delete": {
        "tags": [
          "Announcements"
        ],
        "summary": "Soft delete an announcement",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "204": {
            "description": "OK"
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements/{id}/submit": {
      "post": {
        "tags": [
          "Announcements"
        ],
        "summary": "Submit a draft for approval",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements/{id}/approve": {
      "post": {
        "tags": [
          "Announcements"
        ],
        "summary": "Approve a pending announcement",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements/{id}/reject": {
      "post": {
        "tags": [
          "Announcements"
        ],
        "summary": "Reject a pending announcement into the archive",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements/{id}/publish": {
      "post": {
        "tags": [
          "Announcements"
        ],
        "summary": "Publish an announcement",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements/{id}/unpublish": {
      "post": {
        "tags": [
          "Announcements"
        ],
        "summary": "Unpublish an announcement",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements/{id}/archive": {
      "post": {
        "tags": [
          "Announcements"
        ],
        "summary": "Archive an announcement",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements/{id}/restore": {
      "post": {
        "tags": [
          "Announcements"
        ],
        "summary": "Restore an archived or deleted announcement",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements/{id}/permanent": {
      "delete": {
        "tags": [
          "Announcements"
        ],
        "summary": "Permanently delete an archived or deleted announcement",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "204": {
            "description": "OK"
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements/{id}/attachments": {
      "get": {
        "tags": [
          "Attachments"
        ],
        "summary": "List attachments",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      },
      "post": {
        "tags": [
          "Attachments"
        ],
        "summary": "Upload an attachment",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          },
          {
            "name": "file",
            "in": "formData",
            "required": true,
            "type": "file"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "consumes": [
          "multipart/form-data"
        ],
        "responses": {
          "201": {
            "description": "Created",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements/{id}/attachments/{attachmentId}": {
      "delete": {
        "tags": [
          "Attachments"
        ],
        "summary": "Delete an attachment",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          },
          {
            "name": "attachmentId",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "204": {
            "description": "OK"
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements/{id}/attachments/{attachmentId}/primary": {
      "post": {
        "tags": [
          "Attachments"
        ],
        "summary": "Mark an attachment as primary",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          },
          {
            "name": "attachmentId",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "204": {
            "description": "OK"
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements/{id}/attachments/{attachmentId}/download-url": {
      "get": {
        "tags": [
          "Attachments"
        ],
        "summary": "Create a signed download link",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          },
          {
            "name": "attachmentId",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/announcements/{id}/attachments/{attachmentId}/download": {
      "get": {
        "tags": [
          "Attachments"
        ],
        "summary": "Download an attachment",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          },
          {
            "name": "attachmentId",
            "in": "path",
            "required": true,
            "type": "integer"
          },
          {
            "name": "token",
            "in": "query",
            "required": true,
            "type": "string"
          }
        ],
        "produces": [
          "application/octet-stream"
        ],
        "responses": {
          "200": {
            "description": "OK"
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/calendar/view": {
      "get": {
        "tags": [
          "Calendar"
        ],
        "summary": "Calendar view bucketed by day",
        "parameters": [
          {
            "name": "year",
            "in": "query",
            "required": true,
            "type": "integer"
          },
          {
            "name": "month",
            "in": "query",
            "required": false,
            "type": "integer"
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/calendar/events": {
      "get": {
        "tags": [
          "Calendar"
        ],
        "summary": "List event occurrences in a date range",
        "parameters": [
          {
            "name": "start",
            "in": "query",
            "required": true,
            "type": "string"
          },
          {
            "name": "end",
            "in": "query",
            "required": true,
            "type": "string"
          },
          {
            "name": "page",
            "in": "query",
            "required": false,
            "type": "integer"
          },
          {
            "name": "page_size",
            "in": "query",
            "required": false,
            "type": "integer"
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/calendar/export": {
      "get": {
        "tags": [
          "Calendar"
        ],
        "summary": "Export occurrences as CSV or PDF",
        "parameters": [
          {
            "name": "year",
            "in": "query",
            "required": true,
            "type": "integer"
          },
          {
            "name": "month",
            "in": "query",
            "required": false,
            "type": "integer"
          },
          {
            "name": "format",
            "in": "query",
            "required": false,
            "type": "string"
          }
        ],
        "produces": [
          "text/csv",
          "application/pdf"
        ],
        "responses": {
          "200": {
            "description": "OK"
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/calendar/feed.ics": {
      "get": {
        "tags": [
          "Calendar"
        ],
        "summary": "iCalendar feed of published events",
        "parameters": [
          {
            "name": "year",
            "in": "query",
            "required": false,
            "type": "integer"
          }
        ],
        "produces": [
          "text/calendar"
        ],
        "responses": {
          "200": {
            "description": "OK"
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/calendar/archive": {
      "get": {
        "tags": [
          "Calendar"
        ],
        "summary": "List archived or deleted events",
        "parameters": [
          {
            "name": "page",
            "in": "query",
            "required": false,
            "type": "integer"
          },
          {
            "name": "page_size",
            "in": "query",
            "required": false,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/calendar": {
      "post": {
        "tags": [
          "Calendar"
        ],
        "summary": "Create a calendar event",
        "parameters": [
          {
            "name": "payload",
            "in": "body",
            "required": true,
            "schema": {
              "$ref": "#/definitions/CalendarEventRequest"
            }
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "201": {
            "description": "Created",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/calendar/{id}": {
      "get": {
        "tags": [
          "Calendar"
        ],
        "summary": "Get a calendar event",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      },
      "put": {
        "tags": [
          "Calendar"
        ],
        "summary": "Update a calendar event",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          },
          {
            "name": "payload",
            "in": "body",
            "required": true,
            "schema": {
              "$ref": "#/definitions/CalendarEventRequest"
            }
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      },
      "delete": {
        "tags": [
          "Calendar"
        ],
        "summary": "Soft delete a calendar event",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "204": {
            "description": "OK"
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/calendar/{id}/publish": {
      "post": {
        "tags": [
          "Calendar"
        ],
        "summary": "Publish a calendar event",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/calendar/{id}/unpublish": {
      "post": {
        "tags": [
          "Calendar"
        ],
        "summary": "Unpublish a calendar event",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/calendar/{id}/archive": {
      "post": {
        "tags": [
          "Calendar"
        ],
        "summary": "Archive a calendar event",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/calendar/{id}/restore": {
      "post": {
        "tags": [
          "Calendar"
        ],
        "summary": "Restore a calendar event",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    },
    "/calendar/{id}/permanent": {
      "delete": {
        "tags": [
          "Calendar"
        ],
        "summary": "Permanently delete an archived or deleted event",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "type": "integer"
          }
        ],
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "204": {
            "description": "OK"
          },
          "default": {
            "description": "Error envelope",
            "schema": {
              "$ref": "#/definitions/Envelope"
            }
          }
        }
      }
    }
  },
  "definitions": {
    "APIError": {
      "type": "object",
      "properties": {
        "code": {
          "type": "string"
        },
        "message": {
          "type": "string"
        },
        "status": {
          "type": "integer"
        }
      }
    },
    "Pagination": {
      "type": "object",
      "properties": {
        "page": {
          "type": "integer"
        },
        "page_size": {
          "type": "integer"
        },
        "total_count": {
          "type": "integer"
        }
      }
    },
    "Envelope": {
      "type": "object",
      "properties": {
        "data": {
          "type": "object"
        },
        "error": {
          "$ref": "#/definitions/APIError"
        },
        "pagination": {
          "$ref": "#/definitions/Pagination"
        },
        "meta": {
          "type": "object"
        }
      }
    },
    "CreateAnnouncementRequest": {
      "type": "object",
      "required": [
        "title",
        "content"
      ],
      "properties": {
        "title": {
          "type": "string"
        },
        "content": {
          "type": "string"
        },
        "priority": {
          "type": "string",
          "enum": [
            "LOW",
            "NORMAL",
            "HIGH"
          ]
        },
        "grade_level": {
          "type": "integer",
          "minimum": 1,
          "maximum": 12
        },
        "is_pinned": {
          "type": "boolean"
        },
        "visibility_start_at": {
          "type": "string",
          "format": "date-time"
        },
        "visibility_end_at": {
          "type": "string",
          "format": "date-time"
        }
      }
    },
    "UpdateAnnouncementRequest": {
      "$ref": "#/definitions/CreateAnnouncementRequest"
    },
    "CalendarEventRequest": {
      "type": "object",
      "required": [
        "title",
        "event_type",
        "event_date"
      ],
      "properties": {
        "title": {
          "type": "string"
        },
        "description": {
          "type": "string"
        },
        "event_type": {
          "type": "string"
        },
        "event_date": {
          "type": "string",
          "format": "date"
        },
        "end_date": {
          "type": "string",
          "format": "date"
        },
        "location": {
          "type": "string"
        },
        "is_recurring": {
          "type": "boolean"
        },
        "recurrence_pattern": {
          "type": "string",
          "enum": [
            "yearly",
            "monthly",
            "weekly"
          ]
        },
        "publish": {
          "type": "boolean"
        }
      }
    }
  }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
