package pyparse

// stdlibModules is the default set of Python standard-library top-level
// module names, matching sys.stdlib_module_names for CPython 3.12 (private
// _-prefixed entries omitted). Extend via configuration for older or newer
// interpreter versions.
var stdlibModules = []string{
	"abc", "aifc", "antigravity", "argparse", "array", "ast", "asyncio",
	"atexit", "audioop", "base64", "bdb", "binascii", "bisect", "builtins",
	"bz2", "cProfile", "calendar", "cgi", "cgitb", "chunk", "cmath", "cmd",
	"code", "codecs", "codeop", "collections", "colorsys", "compileall",
	"concurrent", "configparser", "contextlib", "contextvars", "copy",
	"copyreg", "crypt", "csv", "ctypes", "curses", "dataclasses", "datetime",
	"dbm", "decimal", "difflib", "dis", "doctest", "email", "encodings",
	"ensurepip", "enum", "errno", "faulthandler", "fcntl", "filecmp",
	"fileinput", "fnmatch", "fractions", "ftplib", "functools", "gc",
	"genericpath", "getopt", "getpass", "gettext", "glob", "graphlib",
	"grp", "gzip", "hashlib", "heapq", "hmac", "html", "http", "idlelib",
	"imaplib", "imghdr", "importlib", "inspect", "io", "ipaddress",
	"itertools", "json", "keyword", "lib2to3", "linecache", "locale",
	"logging", "lzma", "mailbox", "mailcap", "marshal", "math", "mimetypes",
	"mmap", "modulefinder", "msilib", "msvcrt", "multiprocessing", "netrc",
	"nis", "nntplib", "ntpath", "nturl2path", "numbers", "opcode",
	"operator", "optparse", "os", "ossaudiodev", "pathlib", "pdb",
	"pickle", "pickletools", "pipes", "pkgutil", "platform", "plistlib",
	"poplib", "posix", "posixpath", "pprint", "profile", "pstats", "pty",
	"pwd", "py_compile", "pyclbr", "pydoc", "pydoc_data", "pyexpat",
	"queue", "quopri", "random", "re", "readline", "reprlib", "resource",
	"rlcompleter", "runpy", "sched", "secrets", "select", "selectors",
	"shelve", "shlex", "shutil", "signal", "site", "smtplib", "sndhdr",
	"socket", "socketserver", "spwd", "sqlite3", "sre_compile",
	"sre_constants", "sre_parse", "ssl", "stat", "statistics", "string",
	"stringprep", "struct", "subprocess", "sunau", "symtable", "sys",
	"sysconfig", "syslog", "tabnanny", "tarfile", "telnetlib", "tempfile",
	"termios", "test", "textwrap", "this", "threading", "time", "timeit",
	"tkinter", "token", "tokenize", "tomllib", "trace", "traceback",
	"tracemalloc", "tty", "turtle", "turtledemo", "types", "typing",
	"unicodedata", "unittest", "urllib", "uu", "uuid", "venv", "warnings",
	"wave", "weakref", "webbrowser", "winreg", "winsound", "wsgiref",
	"xdrlib", "xml", "xmlrpc", "zipapp", "zipfile", "zipimport", "zlib",
	"zoneinfo",
}

// DefaultCommonPackages returns the default allow-list of common
// third-party package names filtered out of the import buckets. These are
// the packages a typical data-science repository imports everywhere; their
// declarations live outside the indexed tree and can never be traced.
func DefaultCommonPackages() []string {
	return []string{
		"numpy", "pandas", "scipy", "sklearn", "matplotlib", "seaborn",
		"plotly", "torch", "torchvision", "tensorflow", "keras", "jax",
		"xgboost", "lightgbm", "catboost", "statsmodels", "nltk", "spacy",
		"gensim", "transformers", "datasets", "PIL", "cv2", "skimage",
		"requests", "httpx", "aiohttp", "boto3", "sqlalchemy", "pydantic",
		"fastapi", "flask", "django", "click", "typer", "tqdm", "joblib",
		"yaml", "dotenv", "pytest", "setuptools", "wheel", "pip",
	}
}
